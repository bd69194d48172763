package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByBookingForUpdate loads the booking's invoice and locks its row
func (r *GormInvoiceRepository) FindByBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("booking_id = ?", bookingID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Invoice for booking %s not found", bookingID)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateTotal writes the invoice total
func (r *GormInvoiceRepository) UpdateTotal(ctx context.Context, invoiceID uuid.UUID, total decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", invoiceID).
		Update("total_amount", total)
	if result.Error != nil {
		return fmt.Errorf("update invoice %s total: %w", invoiceID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrInvoiceNotFound.WithMessage("Invoice %s not found", invoiceID)
	}
	return nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormInvoiceLineRepository implements InvoiceLineRepository using GORM
type GormInvoiceLineRepository struct {
	db *gorm.DB
}

// NewGormInvoiceLineRepository creates a new GormInvoiceLineRepository
func NewGormInvoiceLineRepository(db *gorm.DB) *GormInvoiceLineRepository {
	return &GormInvoiceLineRepository{db: db}
}

// ListByInvoice returns every line on the invoice ordered by creation time.
// Lines written by one amendment share a timestamp, so id breaks ties.
func (r *GormInvoiceLineRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceLine, error) {
	var rows []models.InvoiceLineModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]billing.InvoiceLine, 0, len(rows))
	for i := range rows {
		lines = append(lines, rows[i].ToDomain())
	}
	return lines, nil
}

// DeleteByReferences removes the lines carrying any of the given tags
func (r *GormInvoiceLineRepository) DeleteByReferences(ctx context.Context, invoiceID uuid.UUID, refs ...billing.LineReference) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	tags := make([]string, len(refs))
	for i, ref := range refs {
		tags[i] = string(ref)
	}

	result := r.db.WithContext(ctx).
		Where("invoice_id = ? AND reference IN ?", invoiceID, tags).
		Delete(&models.InvoiceLineModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CreateBatch inserts the given lines
func (r *GormInvoiceLineRepository) CreateBatch(ctx context.Context, lines []billing.InvoiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.InvoiceLineModel, len(lines))
	for i, l := range lines {
		rows[i].FromDomain(l)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ExistsByReference reports whether the invoice has a line with the tag
func (r *GormInvoiceLineRepository) ExistsByReference(ctx context.Context, invoiceID uuid.UUID, ref billing.LineReference) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceLineModel{}).
		Where("invoice_id = ? AND reference = ?", invoiceID, string(ref)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormInvoiceLineRepository implements InvoiceLineRepository
var _ billing.InvoiceLineRepository = (*GormInvoiceLineRepository)(nil)
