package rating

import "github.com/google/uuid"

// QuotationRouting maps a quoted port pair to the service and commodity it was priced under.
// Unique per (QuotationID, POL, POD).
type QuotationRouting struct {
	ID          uuid.UUID
	QuotationID uuid.UUID
	POL         string
	POD         string
	ServiceCode string
	Commodity   string
}
