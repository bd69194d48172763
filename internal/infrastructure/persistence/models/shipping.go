package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"gorm.io/datatypes"
)

// BookingModel is the persistence model for the Booking aggregate root.
type BookingModel struct {
	BaseModel
	QuotationID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	AmendmentCutoffAt *time.Time              `gorm:"column:amendment_cutoff_at"`
	Containers        []BookingContainerModel `gorm:"foreignKey:BookingID"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking.
func (m *BookingModel) ToDomain() *shipping.Booking {
	b := &shipping.Booking{
		BaseEntity:        m.BaseModel.ToDomain(),
		QuotationID:       m.QuotationID,
		AmendmentCutoffAt: m.AmendmentCutoffAt,
		Containers:        make([]shipping.BookingContainer, 0, len(m.Containers)),
	}
	for _, c := range m.Containers {
		b.Containers = append(b.Containers, c.ToDomain())
	}
	return b
}

// FromDomain populates the persistence model from a domain Booking.
func (m *BookingModel) FromDomain(b *shipping.Booking) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.QuotationID = b.QuotationID
	m.AmendmentCutoffAt = b.AmendmentCutoffAt
	m.Containers = make([]BookingContainerModel, 0, len(b.Containers))
	for _, c := range b.Containers {
		cm := BookingContainerModel{}
		cm.FromDomain(c)
		m.Containers = append(m.Containers, cm)
	}
}

// BookingContainerModel is one qty/type line of a booking manifest.
type BookingContainerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`
	LineNo    int       `gorm:"not null"`
	ISOCode   string    `gorm:"column:iso_code;type:varchar(4);not null"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BookingContainerModel) TableName() string {
	return "booking_containers"
}

// ToDomain converts the persistence model to a domain BookingContainer.
func (m BookingContainerModel) ToDomain() shipping.BookingContainer {
	return shipping.BookingContainer{
		ID:        m.ID,
		BookingID: m.BookingID,
		LineNo:    m.LineNo,
		ISOCode:   m.ISOCode,
		Quantity:  m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain BookingContainer.
func (m *BookingContainerModel) FromDomain(c shipping.BookingContainer) {
	m.ID = c.ID
	m.BookingID = c.BookingID
	m.LineNo = c.LineNo
	m.ISOCode = c.ISOCode
	m.Quantity = c.Quantity
}

// BLDraftModel is the persistence model for a BL draft. ID is the document number.
type BLDraftModel struct {
	BaseModel
	BookingID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PortOfLoading   string    `gorm:"type:char(5);not null"`
	PortOfDischarge string    `gorm:"type:char(5);not null"`
}

// TableName returns the table name for GORM
func (BLDraftModel) TableName() string {
	return "bl_drafts"
}

// ToDomain converts the persistence model to a domain BLDraft.
func (m *BLDraftModel) ToDomain() *shipping.BLDraft {
	return &shipping.BLDraft{
		ID:              m.ID,
		BookingID:       m.BookingID,
		PortOfLoading:   m.PortOfLoading,
		PortOfDischarge: m.PortOfDischarge,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain BLDraft.
func (m *BLDraftModel) FromDomain(d *shipping.BLDraft) {
	m.FromDomainBaseEntity(shared.BaseEntity{ID: d.ID, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt})
	m.BookingID = d.BookingID
	m.PortOfLoading = d.PortOfLoading
	m.PortOfDischarge = d.PortOfDischarge
}

// BLDraftVersionModel is an append-only snapshot row. (draft_no, sequence) is unique.
type BLDraftVersionModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	DraftNo   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_bl_draft_versions_draft_seq,priority:1"`
	Sequence  int            `gorm:"not null;uniqueIndex:idx_bl_draft_versions_draft_seq,priority:2"`
	Phase     string         `gorm:"type:varchar(10);not null"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb;not null"`
	Actor     *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BLDraftVersionModel) TableName() string {
	return "bl_draft_versions"
}

// ToDomain converts the persistence model to a domain BLDraftVersion.
func (m *BLDraftVersionModel) ToDomain() (*shipping.BLDraftVersion, error) {
	var snap shipping.DraftSnapshot
	if err := json.Unmarshal(m.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot of version %s: %w", m.ID, err)
	}
	return &shipping.BLDraftVersion{
		ID:        m.ID,
		DraftNo:   m.DraftNo,
		Sequence:  m.Sequence,
		Phase:     shipping.VersionPhase(m.Phase),
		Snapshot:  snap,
		Actor:     m.Actor,
		CreatedAt: m.CreatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain BLDraftVersion.
func (m *BLDraftVersionModel) FromDomain(v *shipping.BLDraftVersion) error {
	payload, err := json.Marshal(v.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.ID = v.ID
	m.DraftNo = v.DraftNo
	m.Sequence = v.Sequence
	m.Phase = string(v.Phase)
	m.Snapshot = datatypes.JSON(payload)
	m.Actor = v.Actor
	m.CreatedAt = v.CreatedAt
	return nil
}
