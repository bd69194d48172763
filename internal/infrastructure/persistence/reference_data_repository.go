package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReferenceDataRepository implements ReferenceDataGateway using GORM.
// It only reads and takes no locks.
type GormReferenceDataRepository struct {
	db *gorm.DB
}

// NewGormReferenceDataRepository creates a new GormReferenceDataRepository
func NewGormReferenceDataRepository(db *gorm.DB) *GormReferenceDataRepository {
	return &GormReferenceDataRepository{db: db}
}

// FindRouting returns the quotation routing for the port pair
func (r *GormReferenceDataRepository) FindRouting(ctx context.Context, quotationID uuid.UUID, pol, pod string) (*rating.QuotationRouting, error) {
	var model models.QuotationRoutingModel
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ? AND pol = ? AND pod = ?", quotationID, pol, pod).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrRouteNotFound.WithMessage("Quotation %s has no routing %s-%s", quotationID, pol, pod)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindContainerType returns the container spec for an ISO code
func (r *GormReferenceDataRepository) FindContainerType(ctx context.Context, isoCode string) (*rating.ContainerType, error) {
	var model models.ContainerTypeModel
	if err := r.db.WithContext(ctx).
		Where("iso_code = ?", isoCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrContainerTypeNotFound.WithMessage("Container type %s is not defined", isoCode)
		}
		return nil, err
	}
	ct := model.ToDomain()
	if err := ct.Validate(); err != nil {
		return nil, shared.ErrContainerTypeNotFound.WithMessage("Container type %s is invalid", isoCode).WithCause(err)
	}
	return ct, nil
}

// FindCurrentTariffs returns every tariff for key whose validity window contains asOf
func (r *GormReferenceDataRepository) FindCurrentTariffs(ctx context.Context, key rating.TariffKey, asOf time.Time) ([]rating.Tariff, error) {
	var rows []models.TariffModel
	if err := r.db.WithContext(ctx).
		Where("service_code = ? AND pol = ? AND pod = ? AND commodity = ? AND rating_group = ?",
			key.ServiceCode, key.POL, key.POD, key.Commodity, key.Group).
		Where("valid_from <= ? AND (valid_to IS NULL OR valid_to >= ?)", asOf, asOf).
		Order("valid_from ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	tariffs := make([]rating.Tariff, 0, len(rows))
	for i := range rows {
		tariffs = append(tariffs, rows[i].ToDomain())
	}
	return tariffs, nil
}

// FindSurchargeRates returns all surcharge rates for a container type with their definitions
func (r *GormReferenceDataRepository) FindSurchargeRates(ctx context.Context, isoCode string) ([]rating.SurchargeRate, error) {
	var rows []models.SurchargeRateModel
	if err := r.db.WithContext(ctx).
		Preload("Def").
		Where("container_type_iso_code = ?", isoCode).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSurchargeRates(rows), nil
}

// FindFeeRates returns the rates of the surcharge definition with the given name
func (r *GormReferenceDataRepository) FindFeeRates(ctx context.Context, defName string) ([]rating.SurchargeRate, error) {
	var rows []models.SurchargeRateModel
	if err := r.db.WithContext(ctx).
		Preload("Def").
		Joins("JOIN surcharge_defs ON surcharge_defs.id = surcharge_rates.surcharge_def_id").
		Where("surcharge_defs.name = ?", defName).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toSurchargeRates(rows), nil
}

func toSurchargeRates(rows []models.SurchargeRateModel) []rating.SurchargeRate {
	rates := make([]rating.SurchargeRate, 0, len(rows))
	for i := range rows {
		rates = append(rates, rows[i].ToDomain())
	}
	return rates
}

// Ensure GormReferenceDataRepository implements ReferenceDataGateway
var _ rating.ReferenceDataGateway = (*GormReferenceDataRepository)(nil)
