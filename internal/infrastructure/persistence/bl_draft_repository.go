package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shipdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBLDraftRepository implements BLDraftRepository using GORM
type GormBLDraftRepository struct {
	db *gorm.DB
}

// NewGormBLDraftRepository creates a new GormBLDraftRepository
func NewGormBLDraftRepository(db *gorm.DB) *GormBLDraftRepository {
	return &GormBLDraftRepository{db: db}
}

// FindByKey loads a draft that belongs to the given booking
func (r *GormBLDraftRepository) FindByKey(ctx context.Context, key shipping.DraftKey) (*shipping.BLDraft, error) {
	return r.find(r.db.WithContext(ctx), key)
}

// FindByKeyForUpdate loads a draft and locks its row
func (r *GormBLDraftRepository) FindByKeyForUpdate(ctx context.Context, key shipping.DraftKey) (*shipping.BLDraft, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), key)
}

func (r *GormBLDraftRepository) find(db *gorm.DB, key shipping.DraftKey) (*shipping.BLDraft, error) {
	var model models.BLDraftModel
	if err := db.
		Where("id = ? AND booking_id = ?", key.DraftNo, key.BookingID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("BL draft %s not found for booking %s", key.DraftNo, key.BookingID)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save writes the draft's port fields and update timestamp
func (r *GormBLDraftRepository) Save(ctx context.Context, draft *shipping.BLDraft) error {
	result := r.db.WithContext(ctx).
		Model(&models.BLDraftModel{}).
		Where("id = ?", draft.ID).
		Updates(map[string]any{
			"port_of_loading":   draft.PortOfLoading,
			"port_of_discharge": draft.PortOfDischarge,
			"updated_at":        draft.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update bl draft %s: %w", draft.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("BL draft %s not found", draft.ID)
	}
	return nil
}

// Ensure GormBLDraftRepository implements BLDraftRepository
var _ shipping.BLDraftRepository = (*GormBLDraftRepository)(nil)
