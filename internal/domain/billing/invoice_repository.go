package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for reading and totalling invoices
type InvoiceRepository interface {
	// FindByBookingForUpdate loads the booking's invoice and locks its row
	FindByBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*Invoice, error)

	// UpdateTotal writes the invoice total
	UpdateTotal(ctx context.Context, invoiceID uuid.UUID, total decimal.Decimal) error
}

// InvoiceLineRepository defines the interface for persisting invoice lines
type InvoiceLineRepository interface {
	// ListByInvoice returns every line on the invoice
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceLine, error)

	// DeleteByReferences removes the lines carrying any of the given tags
	DeleteByReferences(ctx context.Context, invoiceID uuid.UUID, refs ...LineReference) (int64, error)

	// CreateBatch inserts the given lines
	CreateBatch(ctx context.Context, lines []InvoiceLine) error

	// ExistsByReference reports whether the invoice has a line with the tag
	ExistsByReference(ctx context.Context, invoiceID uuid.UUID, ref LineReference) (bool, error)
}
