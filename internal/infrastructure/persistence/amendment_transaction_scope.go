package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shipdesk/backend/internal/application/amendment"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"gorm.io/gorm"
)

// ReferenceDecorator wraps the transaction's reference data gateway, e.g. with a cache
type ReferenceDecorator func(rating.ReferenceDataGateway) rating.ReferenceDataGateway

// AmendmentScopeOption configures a GormAmendmentScope
type AmendmentScopeOption func(*GormAmendmentScope)

// WithLockTimeout bounds how long a statement waits for a row lock (postgres only)
func WithLockTimeout(d time.Duration) AmendmentScopeOption {
	return func(s *GormAmendmentScope) { s.lockTimeout = d }
}

// WithReferenceDecorator wraps the reference data gateway handed to each transaction
func WithReferenceDecorator(dec ReferenceDecorator) AmendmentScopeOption {
	return func(s *GormAmendmentScope) { s.decorate = dec }
}

// GormAmendmentScope implements amendment.TransactionScope using GORM transactions.
type GormAmendmentScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
	decorate    ReferenceDecorator
}

// NewGormAmendmentScope creates a new GormAmendmentScope.
func NewGormAmendmentScope(db *gorm.DB, opts ...AmendmentScopeOption) *GormAmendmentScope {
	s := &GormAmendmentScope{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormAmendmentScope) Execute(ctx context.Context, fn func(repos amendment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 && tx.Dialector.Name() == "postgres" {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}

		var ref rating.ReferenceDataGateway = NewGormReferenceDataRepository(tx)
		if s.decorate != nil {
			ref = s.decorate(ref)
		}
		return fn(&gormAmendmentRepositories{tx: tx, ref: ref})
	})
}

// gormAmendmentRepositories provides access to all repositories within a transaction.
type gormAmendmentRepositories struct {
	tx  *gorm.DB
	ref rating.ReferenceDataGateway
}

// Bookings returns the booking repository scoped to the current transaction.
func (r *gormAmendmentRepositories) Bookings() shipping.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

// Drafts returns the BL draft repository scoped to the current transaction.
func (r *gormAmendmentRepositories) Drafts() shipping.BLDraftRepository {
	return NewGormBLDraftRepository(r.tx)
}

// Versions returns the draft version log scoped to the current transaction.
func (r *gormAmendmentRepositories) Versions() shipping.BLDraftVersionRepository {
	return NewGormBLDraftVersionRepository(r.tx)
}

// Invoices returns the invoice repository scoped to the current transaction.
func (r *gormAmendmentRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// InvoiceLines returns the invoice line repository scoped to the current transaction.
func (r *gormAmendmentRepositories) InvoiceLines() billing.InvoiceLineRepository {
	return NewGormInvoiceLineRepository(r.tx)
}

// ReferenceData returns the reference data gateway reading through the current transaction.
func (r *gormAmendmentRepositories) ReferenceData() rating.ReferenceDataGateway {
	return r.ref
}

// Ensure GormAmendmentScope implements TransactionScope
var _ amendment.TransactionScope = (*GormAmendmentScope)(nil)

// Ensure gormAmendmentRepositories implements TransactionalRepositories
var _ amendment.TransactionalRepositories = (*gormAmendmentRepositories)(nil)
