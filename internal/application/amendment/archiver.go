package amendment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shipping"
)

// DraftArchiver appends draft snapshots to the version log
type DraftArchiver struct{}

// Archive appends one snapshot of draft at the next sequence number.
// It never updates or removes earlier versions.
func (DraftArchiver) Archive(
	ctx context.Context,
	versions shipping.BLDraftVersionRepository,
	draft *shipping.BLDraft,
	phase shipping.VersionPhase,
	actor *uuid.UUID,
	now time.Time,
) (*shipping.BLDraftVersion, error) {
	seq, err := versions.NextSequence(ctx, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate version sequence: %w", err)
	}

	version := shipping.NewBLDraftVersion(draft, seq, phase, actor, now)
	if err := versions.Append(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to append %s version: %w", phase, err)
	}
	return version, nil
}
