package persistence

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/application/amendment"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens a GORM postgres session over a mocked SQL connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormBookingRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks booking and loads manifest", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBookingRepository(db)

		bookingID := uuid.New()
		quotationID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(bookingID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "quotation_id", "amendment_cutoff_at", "created_at", "updated_at"}).
				AddRow(bookingID, quotationID, nil, now, now))
		mock.ExpectQuery(`SELECT \* FROM "booking_containers" WHERE "booking_containers"."booking_id" = \$1 ORDER BY line_no ASC`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "line_no", "iso_code", "quantity"}).
				AddRow(uuid.New(), bookingID, 1, "22G1", 2).
				AddRow(uuid.New(), bookingID, 2, "45G1", 1))

		booking, err := repo.FindByIDForUpdate(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, quotationID, booking.QuotationID)
		assert.Nil(t, booking.AmendmentCutoffAt)
		require.Len(t, booking.Containers, 2)
		assert.Equal(t, "22G1", booking.Containers[0].ISOCode)
		assert.Equal(t, 2, booking.Containers[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking is not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBookingRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByIDForUpdate(context.Background(), id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormBLDraftRepository(t *testing.T) {
	t.Run("lookup is scoped to the booking and locked", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBLDraftRepository(db)

		key := shipping.DraftKey{BookingID: uuid.New(), DraftNo: uuid.New()}
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "bl_drafts" WHERE id = \$1 AND booking_id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(key.DraftNo, key.BookingID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "port_of_loading", "port_of_discharge", "created_at", "updated_at"}).
				AddRow(key.DraftNo, key.BookingID, "AEJEA", "USNYC", now, now))

		draft, err := repo.FindByKeyForUpdate(context.Background(), key)

		require.NoError(t, err)
		assert.Equal(t, "AEJEA", draft.PortOfLoading)
		assert.Equal(t, "USNYC", draft.PortOfDischarge)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save of missing draft is not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBLDraftRepository(db)

		draft := &shipping.BLDraft{ID: uuid.New(), PortOfLoading: "AEJEA", PortOfDischarge: "USLAX", UpdatedAt: time.Now()}
		mock.ExpectExec(`UPDATE "bl_drafts" SET .* WHERE id = \$4`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), draft)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBLDraftVersionRepository(t *testing.T) {
	t.Run("next sequence follows max", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBLDraftVersionRepository(db)

		draftNo := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(sequence), 0) FROM "bl_draft_versions" WHERE draft_no = $1`)).
			WithArgs(draftNo).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))

		seq, err := repo.NextSequence(context.Background(), draftNo)
		require.NoError(t, err)
		assert.Equal(t, 5, seq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("append only inserts", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBLDraftVersionRepository(db)

		draft := &shipping.BLDraft{ID: uuid.New(), BookingID: uuid.New(), PortOfLoading: "AEJEA", PortOfDischarge: "USNYC"}
		v := shipping.NewBLDraftVersion(draft, 1, shipping.VersionPhaseBefore, nil, time.Now())

		mock.ExpectExec(`INSERT INTO "bl_draft_versions" \("id","draft_no","sequence","phase","snapshot","actor","created_at"\)`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Append(context.Background(), v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReferenceDataRepository_FindCurrentTariffs(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormReferenceDataRepository(db)

	key := rating.TariffKey{ServiceCode: "AEX1", POL: "AEJEA", POD: "USLAX", Commodity: "FAK", Group: "DRY20"}
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	from := asOf.AddDate(0, -1, 0)

	mock.ExpectQuery(`SELECT \* FROM "tariffs" WHERE .*service_code = \$1 AND pol = \$2 AND pod = \$3 AND commodity = \$4 AND rating_group = \$5.*valid_from <= \$6 AND \(valid_to IS NULL OR valid_to >= \$7\).*ORDER BY valid_from ASC`).
		WithArgs("AEX1", "AEJEA", "USLAX", "FAK", "DRY20", asOf, asOf).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_code", "pol", "pod", "commodity", "rating_group", "rate_per_teu", "valid_from", "valid_to"}).
			AddRow(uuid.New(), "AEX1", "AEJEA", "USLAX", "FAK", "DRY20", "1200.0000", from, nil))

	tariffs, err := repo.FindCurrentTariffs(context.Background(), key, asOf)

	require.NoError(t, err)
	require.Len(t, tariffs, 1)
	assert.True(t, tariffs[0].RatePerTEU.Equal(decimal.NewFromInt(1200)))
	assert.Nil(t, tariffs[0].ValidTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReferenceDataRepository_FindRoutingNotFound(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormReferenceDataRepository(db)

	quotationID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "quotation_routings" WHERE quotation_id = \$1 AND pol = \$2 AND pod = \$3`).
		WithArgs(quotationID, "AEJEA", "USLAX", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindRouting(context.Background(), quotationID, "AEJEA", "USLAX")
	assert.True(t, errors.Is(err, shared.ErrRouteNotFound))
}

func TestGormInvoiceLineRepository_DeleteByReferences(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceLineRepository(db)

	invoiceID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "invoice_lines" WHERE invoice_id = $1 AND reference IN ($2,$3)`)).
		WithArgs(invoiceID, "BASE_FREIGHT", "SURCHARGE").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByReferences(context.Background(), invoiceID, billing.RouteDependentReferences...)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceLineRepository_ListByInvoice(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceLineRepository(db)

	invoiceID := uuid.New()
	now := time.Now()
	first, second := uuid.MustParse("00000000-0000-0000-0000-000000000001"), uuid.MustParse("00000000-0000-0000-0000-000000000002")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "invoice_lines" WHERE invoice_id = $1 ORDER BY created_at ASC, id ASC`)).
		WithArgs(invoiceID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "invoice_id", "description", "amount", "reference", "gl_code", "cost_center", "created_at"}).
			AddRow(first, invoiceID, "Ocean freight 2 x 22G1", "2400.0000", "BASE_FREIGHT", "4100", "OPS", now).
			AddRow(second, invoiceID, "BAF 2 x 22G1", "300.0000", "SURCHARGE", "4120", "OPS", now))

	lines, err := repo.ListByInvoice(context.Background(), invoiceID)

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, first, lines[0].ID)
	assert.Equal(t, billing.LineReferenceSurcharge, lines[1].Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository(t *testing.T) {
	t.Run("invoice row is locked", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db)

		bookingID := uuid.New()
		invoiceID := uuid.New()
		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE booking_id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(bookingID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "total_amount", "created_at", "updated_at"}).
				AddRow(invoiceID, bookingID, "2500.0000", now, now))

		inv, err := repo.FindByBookingForUpdate(context.Background(), bookingID)

		require.NoError(t, err)
		assert.Equal(t, invoiceID, inv.ID)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(2500)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update total of missing invoice fails", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormInvoiceRepository(db)

		invoiceID := uuid.New()
		mock.ExpectExec(`UPDATE "invoices" SET "total_amount"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), invoiceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTotal(context.Background(), invoiceID, decimal.NewFromInt(10))
		assert.True(t, errors.Is(err, shared.ErrInvoiceNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAmendmentScope_Execute(t *testing.T) {
	t.Run("sets lock timeout and commits", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormAmendmentScope(db, WithLockTimeout(1500*time.Millisecond))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL lock_timeout = '1500ms'`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := scope.Execute(context.Background(), func(repos amendment.TransactionalRepositories) error {
			assert.NotNil(t, repos.Bookings())
			assert.NotNil(t, repos.ReferenceData())
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormAmendmentScope(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := scope.Execute(context.Background(), func(amendment.TransactionalRepositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decorates reference data", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		var wrapped bool
		scope := NewGormAmendmentScope(db, WithReferenceDecorator(func(g rating.ReferenceDataGateway) rating.ReferenceDataGateway {
			wrapped = true
			return g
		}))

		mock.ExpectBegin()
		mock.ExpectCommit()
		require.NoError(t, scope.Execute(context.Background(), func(amendment.TransactionalRepositories) error { return nil }))
		assert.True(t, wrapped)
	})
}
