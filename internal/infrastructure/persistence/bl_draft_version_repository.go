package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shipdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBLDraftVersionRepository implements the append-only BLDraftVersionRepository using GORM.
// It never issues UPDATE or DELETE statements.
type GormBLDraftVersionRepository struct {
	db *gorm.DB
}

// NewGormBLDraftVersionRepository creates a new GormBLDraftVersionRepository
func NewGormBLDraftVersionRepository(db *gorm.DB) *GormBLDraftVersionRepository {
	return &GormBLDraftVersionRepository{db: db}
}

// NextSequence returns max(sequence)+1 for the draft.
// Callers serialize through the draft row lock.
func (r *GormBLDraftVersionRepository) NextSequence(ctx context.Context, draftNo uuid.UUID) (int, error) {
	var maxSeq int
	if err := r.db.WithContext(ctx).
		Model(&models.BLDraftVersionModel{}).
		Where("draft_no = ?", draftNo).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&maxSeq).Error; err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

// Append inserts a new version row
func (r *GormBLDraftVersionRepository) Append(ctx context.Context, version *shipping.BLDraftVersion) error {
	var model models.BLDraftVersionModel
	if err := model.FromDomain(version); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert bl draft version: %w", err)
	}
	return nil
}

// ListByDraft returns all versions of a draft in sequence order
func (r *GormBLDraftVersionRepository) ListByDraft(ctx context.Context, draftNo uuid.UUID) ([]shipping.BLDraftVersion, error) {
	var rows []models.BLDraftVersionModel
	if err := r.db.WithContext(ctx).
		Where("draft_no = ?", draftNo).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	versions := make([]shipping.BLDraftVersion, 0, len(rows))
	for i := range rows {
		v, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, nil
}

// Ensure GormBLDraftVersionRepository implements BLDraftVersionRepository
var _ shipping.BLDraftVersionRepository = (*GormBLDraftVersionRepository)(nil)
