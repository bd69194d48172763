package amendment

import (
	"context"

	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shipping"
)

// TransactionScope runs an amendment as one unit of work.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one amendment.
// All of them share the same underlying database transaction, reference
// data reads included.
type TransactionalRepositories interface {
	// Bookings returns the booking repository scoped to the current transaction
	Bookings() shipping.BookingRepository
	// Drafts returns the BL draft repository scoped to the current transaction
	Drafts() shipping.BLDraftRepository
	// Versions returns the append-only draft version log scoped to the current transaction
	Versions() shipping.BLDraftVersionRepository
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() billing.InvoiceRepository
	// InvoiceLines returns the invoice line repository scoped to the current transaction
	InvoiceLines() billing.InvoiceLineRepository
	// ReferenceData returns the read-only pricing reference data
	ReferenceData() rating.ReferenceDataGateway
}
