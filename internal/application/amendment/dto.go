package amendment

import (
	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// Patch field names accepted on the wire
const (
	FieldPortOfLoading   = "portOfLoading"
	FieldPortOfDischarge = "portOfDischarge"
)

// AmendRouteRequest is the raw amendment request as received by the boundary.
// Patch holds the decoded JSON object so that undeclared keys can be rejected.
type AmendRouteRequest struct {
	BookingID string
	DraftNo   string
	Patch     map[string]any
	ActorID   string // Optional, empty when the caller is anonymous
}

// ValidatedAmendment is a request that passed shape validation
type ValidatedAmendment struct {
	Key   shipping.DraftKey
	Patch shipping.RoutePatch
	Actor *uuid.UUID
}

// AmendmentResult reports what an amendment did
type AmendmentResult struct {
	Draft        *shipping.BLDraft
	RouteChange  shipping.RouteChange
	Phase        Phase
	LinesWritten int
	FeeApplied   bool
	InvoiceTotal *decimal.Decimal // nil when the route did not change
}
