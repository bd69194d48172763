package shipping

import (
	"time"

	"github.com/google/uuid"
)

// BLDraft is the editable bill of lading for a booking.
// ID is the document number.
type BLDraft struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	PortOfLoading   string
	PortOfDischarge string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Route returns the draft's current port pair
func (d *BLDraft) Route() Route {
	return Route{PortOfLoading: d.PortOfLoading, PortOfDischarge: d.PortOfDischarge}
}

// ApplyPatch writes the normalized patch values onto the draft.
// The draft is touched even when the patch is empty.
func (d *BLDraft) ApplyPatch(patch RoutePatch, now time.Time) {
	next := patch.Normalized()
	if next.PortOfLoading != nil {
		d.PortOfLoading = *next.PortOfLoading
	}
	if next.PortOfDischarge != nil {
		d.PortOfDischarge = *next.PortOfDischarge
	}
	d.UpdatedAt = now
}

// DraftSnapshot is the archived representation of a draft
type DraftSnapshot struct {
	DocumentNo      uuid.UUID `json:"documentNo"`
	BookingID       uuid.UUID `json:"bookingId"`
	PortOfLoading   string    `json:"portOfLoading"`
	PortOfDischarge string    `json:"portOfDischarge"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Snapshot captures the draft's current state
func (d *BLDraft) Snapshot() DraftSnapshot {
	return DraftSnapshot{
		DocumentNo:      d.ID,
		BookingID:       d.BookingID,
		PortOfLoading:   d.PortOfLoading,
		PortOfDischarge: d.PortOfDischarge,
		UpdatedAt:       d.UpdatedAt,
	}
}
