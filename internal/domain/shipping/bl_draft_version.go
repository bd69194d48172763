package shipping

import (
	"time"

	"github.com/google/uuid"
)

// VersionPhase marks which side of an edit a snapshot was taken on
type VersionPhase string

const (
	VersionPhaseBefore VersionPhase = "BEFORE"
	VersionPhaseAfter  VersionPhase = "AFTER"
)

// IsValid checks if the phase is a valid VersionPhase
func (p VersionPhase) IsValid() bool {
	return p == VersionPhaseBefore || p == VersionPhaseAfter
}

// BLDraftVersion is an append-only audit snapshot of a draft.
// Sequence is monotonic per draft and starts at 1.
type BLDraftVersion struct {
	ID        uuid.UUID
	DraftNo   uuid.UUID
	Sequence  int
	Phase     VersionPhase
	Snapshot  DraftSnapshot
	Actor     *uuid.UUID
	CreatedAt time.Time
}

// NewBLDraftVersion creates a snapshot of draft at the given sequence
func NewBLDraftVersion(draft *BLDraft, sequence int, phase VersionPhase, actor *uuid.UUID, now time.Time) *BLDraftVersion {
	return &BLDraftVersion{
		ID:        uuid.New(),
		DraftNo:   draft.ID,
		Sequence:  sequence,
		Phase:     phase,
		Snapshot:  draft.Snapshot(),
		Actor:     actor,
		CreatedAt: now,
	}
}
