package dto

import (
	"time"

	"github.com/shipdesk/backend/internal/domain/shipping"
)

// AmendRouteBody documents the PATCH body. Handlers decode into a map so
// that undeclared keys are reported instead of silently dropped.
type AmendRouteBody struct {
	PortOfLoading   *string `json:"portOfLoading,omitempty" example:"SGSIN"`
	PortOfDischarge *string `json:"portOfDischarge,omitempty" example:"NLRTM"`
}

// BLDraftResponse is the API view of a BL draft
type BLDraftResponse struct {
	DocumentNo      string    `json:"documentNo"`
	BookingID       string    `json:"bookingId"`
	PortOfLoading   string    `json:"portOfLoading"`
	PortOfDischarge string    `json:"portOfDischarge"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToBLDraftResponse converts a domain draft
func ToBLDraftResponse(d *shipping.BLDraft) BLDraftResponse {
	return BLDraftResponse{
		DocumentNo:      d.ID.String(),
		BookingID:       d.BookingID.String(),
		PortOfLoading:   d.PortOfLoading,
		PortOfDischarge: d.PortOfDischarge,
		UpdatedAt:       d.UpdatedAt,
	}
}

// BLDraftVersionResponse is one archived snapshot
type BLDraftVersionResponse struct {
	Sequence  int                    `json:"sequence"`
	Phase     string                 `json:"phase"`
	Snapshot  shipping.DraftSnapshot `json:"snapshot"`
	Actor     *string                `json:"actor,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ToBLDraftVersionResponses converts archived versions, keeping their order
func ToBLDraftVersionResponses(versions []shipping.BLDraftVersion) []BLDraftVersionResponse {
	out := make([]BLDraftVersionResponse, 0, len(versions))
	for _, v := range versions {
		r := BLDraftVersionResponse{
			Sequence:  v.Sequence,
			Phase:     string(v.Phase),
			Snapshot:  v.Snapshot,
			CreatedAt: v.CreatedAt,
		}
		if v.Actor != nil {
			actor := v.Actor.String()
			r.Actor = &actor
		}
		out = append(out, r)
	}
	return out
}
