package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shipdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookingRepository implements BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByIDForUpdate locks the booking row and loads its manifest in line order
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shipping.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Containers", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Booking %s not found", id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormBookingRepository implements BookingRepository
var _ shipping.BookingRepository = (*GormBookingRepository)(nil)
