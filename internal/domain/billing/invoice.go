package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineReference tags engine-managed invoice lines
type LineReference string

const (
	LineReferenceBaseFreight LineReference = "BASE_FREIGHT"
	LineReferenceSurcharge   LineReference = "SURCHARGE"
	LineReferenceAmendFee    LineReference = "AMEND_FEE"
)

// RouteDependentReferences are the tags rebuilt whenever the route changes
var RouteDependentReferences = []LineReference{LineReferenceBaseFreight, LineReferenceSurcharge}

// IsRouteDependent reports whether lines with this tag are rebuilt on a route change
func (r LineReference) IsRouteDependent() bool {
	return r == LineReferenceBaseFreight || r == LineReferenceSurcharge
}

// InvoiceLine is one charge on an invoice
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Amount      decimal.Decimal
	Reference   LineReference
	GLCode      string
	CostCenter  string
	CreatedAt   time.Time
}

// NewInvoiceLine creates an invoice line with a generated ID
func NewInvoiceLine(invoiceID uuid.UUID, ref LineReference, description string, amount decimal.Decimal, glCode, costCenter string, now time.Time) InvoiceLine {
	return InvoiceLine{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: description,
		Amount:      amount,
		Reference:   ref,
		GLCode:      glCode,
		CostCenter:  costCenter,
		CreatedAt:   now,
	}
}

// Invoice is the financial document of a booking. One per booking.
type Invoice struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	TotalAmount decimal.Decimal
	UpdatedAt   time.Time
}

// SumLines returns the sum of all line amounts
func SumLines(lines []InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Recalculate sets TotalAmount to the sum of the given lines, which must be
// every line currently on the invoice.
func (i *Invoice) Recalculate(lines []InvoiceLine, now time.Time) decimal.Decimal {
	i.TotalAmount = SumLines(lines)
	i.UpdatedAt = now
	return i.TotalAmount
}
