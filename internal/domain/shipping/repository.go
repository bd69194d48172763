package shipping

import (
	"context"

	"github.com/google/uuid"
)

// DraftKey addresses a draft through its owning booking
type DraftKey struct {
	BookingID uuid.UUID
	DraftNo   uuid.UUID
}

// BookingRepository defines the interface for loading bookings
type BookingRepository interface {
	// FindByIDForUpdate loads a booking with its containers and locks the booking row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
}

// BLDraftRepository defines the interface for persisting BL drafts
type BLDraftRepository interface {
	// FindByKey loads a draft only if it belongs to the booking
	FindByKey(ctx context.Context, key DraftKey) (*BLDraft, error)

	// FindByKeyForUpdate is FindByKey with a row lock on the draft
	FindByKeyForUpdate(ctx context.Context, key DraftKey) (*BLDraft, error)

	// Save writes the draft's port fields
	Save(ctx context.Context, draft *BLDraft) error
}

// BLDraftVersionRepository is the append-only audit log of draft snapshots.
// It intentionally has no update or delete operations.
type BLDraftVersionRepository interface {
	// NextSequence returns the next free sequence number for a draft
	NextSequence(ctx context.Context, draftNo uuid.UUID) (int, error)

	// Append inserts a new version row
	Append(ctx context.Context, version *BLDraftVersion) error

	// ListByDraft returns all versions of a draft in sequence order
	ListByDraft(ctx context.Context, draftNo uuid.UUID) ([]BLDraftVersion, error)
}
