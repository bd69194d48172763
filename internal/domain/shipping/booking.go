package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
)

// BookingContainer is one qty/type pair on a booking manifest
type BookingContainer struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	LineNo    int // Position in the manifest, drives charge ordering
	ISOCode   string
	Quantity  int
}

// Booking represents a confirmed shipment
type Booking struct {
	shared.BaseEntity
	QuotationID       uuid.UUID
	AmendmentCutoffAt *time.Time // Set once by the booking workflow, nil means no cutoff
	Containers        []BookingContainer
}

// HasCutoff reports whether an amendment cutoff has been set
func (b *Booking) HasCutoff() bool {
	return b.AmendmentCutoffAt != nil
}
