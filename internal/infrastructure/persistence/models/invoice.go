package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root. One per booking.
type InvoiceModel struct {
	BaseModel
	BookingID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		ID:          m.ID,
		BookingID:   m.BookingID,
		TotalAmount: m.TotalAmount,
		UpdatedAt:   m.UpdatedAt,
	}
}

// InvoiceLineModel is one charge on an invoice.
// At most one AMEND_FEE line per invoice is enforced by a partial unique index in the migrations.
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_lines_invoice_ref,priority:1"`
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference   string          `gorm:"type:varchar(20);index:idx_invoice_lines_invoice_ref,priority:2"`
	GLCode      string          `gorm:"column:gl_code;type:varchar(20)"`
	CostCenter  string          `gorm:"type:varchar(20)"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain InvoiceLine.
func (m *InvoiceLineModel) ToDomain() billing.InvoiceLine {
	return billing.InvoiceLine{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Amount:      m.Amount,
		Reference:   billing.LineReference(m.Reference),
		GLCode:      m.GLCode,
		CostCenter:  m.CostCenter,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain InvoiceLine.
func (m *InvoiceLineModel) FromDomain(l billing.InvoiceLine) {
	m.ID = l.ID
	m.InvoiceID = l.InvoiceID
	m.Description = l.Description
	m.Amount = l.Amount
	m.Reference = string(l.Reference)
	m.GLCode = l.GLCode
	m.CostCenter = l.CostCenter
	m.CreatedAt = l.CreatedAt
}
