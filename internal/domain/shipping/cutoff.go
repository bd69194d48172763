package shipping

import (
	"time"

	"github.com/shipdesk/backend/internal/domain/shared"
)

// CutoffPolicy gates amendments on the booking's amendment cutoff
type CutoffPolicy struct{}

// Enforce refuses the amendment when now is strictly after the booking's cutoff.
// A booking without a cutoff is always amendable.
func (CutoffPolicy) Enforce(booking *Booking, now time.Time) error {
	if !booking.HasCutoff() {
		return nil
	}
	if now.After(*booking.AmendmentCutoffAt) {
		return shared.ErrCutoffExceeded.WithMessage(
			"Amendment cutoff %s has passed for booking %s",
			booking.AmendmentCutoffAt.UTC().Format(time.RFC3339), booking.ID)
	}
	return nil
}

// LateFeeDue reports whether the late-amendment fee applies.
// Callers that already passed Enforce always get false here.
func (CutoffPolicy) LateFeeDue(booking *Booking, now time.Time) bool {
	return booking.HasCutoff() && now.After(*booking.AmendmentCutoffAt)
}
