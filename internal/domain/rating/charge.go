package rating

import "github.com/shopspring/decimal"

// ChargeKind tags what produced a charge
type ChargeKind string

const (
	ChargeKindFreight   ChargeKind = "BASE_FREIGHT"
	ChargeKindSurcharge ChargeKind = "SURCHARGE"
)

// ContainerLine is one qty/type pair to be priced
type ContainerLine struct {
	ISOCode  string
	Quantity int
}

// Charge is a priced amount that becomes one invoice line
type Charge struct {
	Kind        ChargeKind
	Description string
	Amount      decimal.Decimal
	GLCode      *string // Overrides the default GL code for the kind when set
}
