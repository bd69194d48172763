package amendment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

const lateFeeName = "LATE_AMENDMENT_FEE"

type fixture struct {
	store     *memStore
	scope     *memScope
	metrics   *metricsSpy
	service   *Service
	bookingID uuid.UUID
	draftNo   uuid.UUID
	invoiceID uuid.UUID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strRef(s string) *string { return &s }

// newFixture seeds a booking on AEJEA-USNYC with 2x22G1 and 1x45G1, priced
// under service AEX1, and an invoice totalling 4475.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store:     store,
		scope:     &memScope{store: store},
		metrics:   &metricsSpy{},
		bookingID: uuid.New(),
		draftNo:   uuid.New(),
		invoiceID: uuid.New(),
	}
	quotationID := uuid.New()
	created := fixedNow.Add(-72 * time.Hour)

	booking := shipping.Booking{
		BaseEntity:  shared.BaseEntity{ID: f.bookingID, CreatedAt: created, UpdatedAt: created},
		QuotationID: quotationID,
		Containers: []shipping.BookingContainer{
			{ID: uuid.New(), BookingID: f.bookingID, LineNo: 1, ISOCode: "22G1", Quantity: 2},
			{ID: uuid.New(), BookingID: f.bookingID, LineNo: 2, ISOCode: "45G1", Quantity: 1},
		},
	}
	store.bookings[f.bookingID] = booking
	store.drafts[f.draftNo] = shipping.BLDraft{
		ID: f.draftNo, BookingID: f.bookingID,
		PortOfLoading: "AEJEA", PortOfDischarge: "USNYC",
		CreatedAt: created, UpdatedAt: created,
	}

	store.containerTypes["22G1"] = rating.ContainerType{ISOCode: "22G1", TEUFactor: dec("1"), Group: "DRY20"}
	store.containerTypes["45G1"] = rating.ContainerType{ISOCode: "45G1", TEUFactor: dec("2"), Group: "DRY40"}

	store.routings = []rating.QuotationRouting{
		{ID: uuid.New(), QuotationID: quotationID, POL: "AEJEA", POD: "USNYC", ServiceCode: "AEX1", Commodity: "GENERAL"},
		{ID: uuid.New(), QuotationID: quotationID, POL: "AEJEA", POD: "USLAX", ServiceCode: "AEX2", Commodity: "GENERAL"},
		{ID: uuid.New(), QuotationID: quotationID, POL: "AEJEA", POD: "USSAV", ServiceCode: "AEX3", Commodity: "GENERAL"},
	}

	validFrom := fixedNow.AddDate(0, -2, 0)
	tariff := func(service, pod, group, rate string) rating.Tariff {
		return rating.Tariff{
			ID: uuid.New(), ServiceCode: service, POL: "AEJEA", POD: pod,
			Commodity: "GENERAL", Group: group, RatePerTEU: dec(rate), ValidFrom: validFrom,
		}
	}
	expired := fixedNow.AddDate(0, -1, 0)
	store.tariffs = []rating.Tariff{
		tariff("AEX1", "USNYC", "DRY20", "1000"),
		tariff("AEX1", "USNYC", "DRY40", "900"),
		tariff("AEX2", "USLAX", "DRY20", "1200"),
		tariff("AEX2", "USLAX", "DRY40", "1100"),
	}
	old := tariff("AEX2", "USLAX", "DRY20", "9999")
	old.ValidTo = &expired
	store.tariffs = append(store.tariffs, old)

	baf := rating.SurchargeDef{ID: uuid.New(), Name: "BAF", Scope: rating.SurchargeScopeFreight}
	pss := rating.SurchargeDef{ID: uuid.New(), Name: "PSS", Scope: rating.SurchargeScopeFreight, ServiceCode: strRef("AEX2"), GLCode: strRef("4120")}
	docs := rating.SurchargeDef{ID: uuid.New(), Name: "DOC", Scope: "DOCUMENT"}
	fee := rating.SurchargeDef{ID: uuid.New(), Name: lateFeeName, Scope: "FEE", GLCode: strRef("4300")}
	store.surcharges = []rating.SurchargeRate{
		{ID: uuid.New(), Def: pss, ContainerISOCode: "22G1", Amount: dec("50")},
		{ID: uuid.New(), Def: baf, ContainerISOCode: "22G1", Amount: dec("150")},
		{ID: uuid.New(), Def: baf, ContainerISOCode: "45G1", Amount: dec("300")},
		{ID: uuid.New(), Def: docs, ContainerISOCode: "22G1", Amount: dec("35")},
		{ID: uuid.New(), Def: fee, Amount: dec("250")},
	}

	store.invoices[f.bookingID] = billing.Invoice{ID: f.invoiceID, BookingID: f.bookingID, TotalAmount: dec("4475")}
	line := func(ref billing.LineReference, desc, amount string) billing.InvoiceLine {
		return billing.NewInvoiceLine(f.invoiceID, ref, desc, dec(amount), "4100", "OPS", created)
	}
	store.lines = []billing.InvoiceLine{
		line(billing.LineReferenceBaseFreight, "Ocean freight 2 x 22G1", "2000"),
		line(billing.LineReferenceBaseFreight, "Ocean freight 1 x 45G1", "1800"),
		line(billing.LineReferenceSurcharge, "BAF 2 x 22G1", "300"),
		line(billing.LineReferenceSurcharge, "BAF 1 x 45G1", "300"),
		line("", "Manual handling", "75"),
	}

	f.service = NewService(f.scope, Config{
		LateFeeSurchargeName: lateFeeName,
		FreightGLCode:        "4100",
		SurchargeGLCode:      "4110",
		FeeGLCode:            "4200",
		CostCenter:           "OPS",
	}, zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }), WithMetrics(f.metrics))
	return f
}

func (f *fixture) request(patch map[string]any) AmendRouteRequest {
	return AmendRouteRequest{BookingID: f.bookingID.String(), DraftNo: f.draftNo.String(), Patch: patch}
}

func (f *fixture) invoice() billing.Invoice {
	return f.store.invoices[f.bookingID]
}

func (f *fixture) linesByRef(ref billing.LineReference) []billing.InvoiceLine {
	var out []billing.InvoiceLine
	for _, l := range f.store.linesOf(f.invoiceID) {
		if l.Reference == ref {
			out = append(out, l)
		}
	}
	return out
}

func (f *fixture) versionCount() int {
	n := 0
	for _, v := range f.store.versions {
		if v.DraftNo == f.draftNo {
			n++
		}
	}
	return n
}

func assertTotalMatchesLines(t *testing.T, f *fixture) {
	t.Helper()
	sum := billing.SumLines(f.store.linesOf(f.invoiceID))
	assert.True(t, f.invoice().TotalAmount.Equal(sum), "total %s != sum of lines %s", f.invoice().TotalAmount, sum)
}

func amounts(lines []billing.InvoiceLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Amount.String())
	}
	return out
}

func TestService_AmendRoute_RouteChanged(t *testing.T) {
	f := newFixture(t)
	actor := uuid.New()
	req := f.request(map[string]any{"portOfDischarge": "USLAX"})
	req.ActorID = actor.String()

	result, err := f.service.AmendRoute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, PhaseCommitted, result.Phase)
	assert.True(t, result.RouteChange.Changed)
	assert.True(t, result.RouteChange.PODChanged)
	assert.False(t, result.RouteChange.POLChanged)
	assert.Equal(t, "USLAX", result.Draft.PortOfDischarge)
	assert.Equal(t, fixedNow, result.Draft.UpdatedAt)
	assert.Equal(t, 5, result.LinesWritten)
	assert.False(t, result.FeeApplied)
	require.NotNil(t, result.InvoiceTotal)
	assert.Equal(t, "5375", result.InvoiceTotal.String())

	// Freight follows manifest order, surcharges are name-sorted per container
	freight := f.linesByRef(billing.LineReferenceBaseFreight)
	assert.Equal(t, []string{"2400", "2200"}, amounts(freight))
	assert.Equal(t, "Ocean freight 2 x 22G1", freight[0].Description)
	assert.Equal(t, "4100", freight[0].GLCode)

	surcharges := f.linesByRef(billing.LineReferenceSurcharge)
	require.Len(t, surcharges, 3)
	assert.Equal(t, []string{"300", "100", "300"}, amounts(surcharges))
	assert.Equal(t, "BAF 2 x 22G1", surcharges[0].Description)
	assert.Equal(t, "4110", surcharges[0].GLCode)
	assert.Equal(t, "PSS 2 x 22G1", surcharges[1].Description)
	assert.Equal(t, "4120", surcharges[1].GLCode)
	for _, l := range surcharges {
		assert.Equal(t, "OPS", l.CostCenter)
	}

	// Lines the engine does not own survive
	assert.Len(t, f.linesByRef(""), 1)
	assert.Empty(t, f.linesByRef(billing.LineReferenceAmendFee))

	assert.Equal(t, "5375", f.invoice().TotalAmount.String())
	assertTotalMatchesLines(t, f)

	require.Equal(t, 2, f.versionCount())
	before, after := f.store.versions[0], f.store.versions[1]
	assert.Equal(t, 1, before.Sequence)
	assert.Equal(t, shipping.VersionPhaseBefore, before.Phase)
	assert.Equal(t, "USNYC", before.Snapshot.PortOfDischarge)
	assert.Equal(t, 2, after.Sequence)
	assert.Equal(t, shipping.VersionPhaseAfter, after.Phase)
	assert.Equal(t, "USLAX", after.Snapshot.PortOfDischarge)
	require.NotNil(t, after.Actor)
	assert.Equal(t, actor, *after.Actor)

	require.Len(t, f.metrics.calls, 1)
	assert.Equal(t, recordedAmendment{outcome: "COMMITTED", phase: "ARCHIVING_AFTER", routeChanged: true}, f.metrics.calls[0])
}

func TestService_AmendRoute_SamePortDifferentCasing(t *testing.T) {
	f := newFixture(t)
	linesBefore := f.store.linesOf(f.invoiceID)

	result, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfDischarge": "usnyc"}))

	require.NoError(t, err)
	assert.Equal(t, PhaseCommitted, result.Phase)
	assert.False(t, result.RouteChange.Changed)
	assert.Nil(t, result.InvoiceTotal)
	assert.Zero(t, result.LinesWritten)
	assert.Equal(t, "USNYC", f.store.drafts[f.draftNo].PortOfDischarge)
	assert.Equal(t, fixedNow, f.store.drafts[f.draftNo].UpdatedAt)

	assert.Equal(t, linesBefore, f.store.linesOf(f.invoiceID))
	assert.Equal(t, "4475", f.invoice().TotalAmount.String())
	assert.Equal(t, 2, f.versionCount())
	assert.Zero(t, f.scope.tariffCalls)
}

func TestService_AmendRoute_EmptyPatchStillArchives(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{}))

	require.NoError(t, err)
	assert.False(t, result.RouteChange.Changed)
	assert.Equal(t, 2, f.versionCount())
}

func TestService_AmendRoute_CutoffExceeded(t *testing.T) {
	f := newFixture(t)
	booking := f.store.bookings[f.bookingID]
	cutoff := fixedNow.Add(-time.Hour)
	booking.AmendmentCutoffAt = &cutoff
	f.store.bookings[f.bookingID] = booking
	linesBefore := f.store.linesOf(f.invoiceID)

	result, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfDischarge": "USLAX"}))

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shared.ErrCutoffExceeded))
	assert.Zero(t, f.versionCount())
	assert.Equal(t, linesBefore, f.store.linesOf(f.invoiceID))
	assert.Equal(t, "USNYC", f.store.drafts[f.draftNo].PortOfDischarge)
	require.Len(t, f.metrics.calls, 1)
	assert.Equal(t, "REJECTED", f.metrics.calls[0].outcome)
}

func TestService_AmendRoute_CutoffInFutureAllowed(t *testing.T) {
	f := newFixture(t)
	booking := f.store.bookings[f.bookingID]
	cutoff := fixedNow.Add(time.Hour)
	booking.AmendmentCutoffAt = &cutoff
	f.store.bookings[f.bookingID] = booking

	result, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfDischarge": "USLAX"}))

	require.NoError(t, err)
	// The late fee only applies after the cutoff, which Enforce already refuses
	assert.False(t, result.FeeApplied)
	assert.Empty(t, f.linesByRef(billing.LineReferenceAmendFee))
}

func TestService_AmendRoute_RollsBack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		patch   map[string]any
		wantErr *shared.DomainError
		phase   string
	}{
		{
			name:    "no tariff for new route",
			patch:   map[string]any{"portOfDischarge": "USSAV"},
			wantErr: shared.ErrTariffNotFound,
			phase:   "RESOLVING",
		},
		{
			name: "ambiguous tariff",
			setup: func(f *fixture) {
				dup := f.store.tariffs[2]
				dup.ID = uuid.New()
				dup.RatePerTEU = dec("1250")
				f.store.tariffs = append(f.store.tariffs, dup)
			},
			patch:   map[string]any{"portOfDischarge": "USLAX"},
			wantErr: shared.ErrAmbiguousTariff,
			phase:   "RESOLVING",
		},
		{
			name:    "no routing on quotation",
			patch:   map[string]any{"portOfLoading": "OMSLL"},
			wantErr: shared.ErrRouteNotFound,
			phase:   "RESOLVING",
		},
		{
			name:    "unknown container type",
			setup:   func(f *fixture) { delete(f.store.containerTypes, "45G1") },
			patch:   map[string]any{"portOfDischarge": "USLAX"},
			wantErr: shared.ErrContainerTypeNotFound,
			phase:   "RESOLVING",
		},
		{
			name:    "booking has no invoice",
			setup:   func(f *fixture) { delete(f.store.invoices, f.bookingID) },
			patch:   map[string]any{"portOfDischarge": "USLAX"},
			wantErr: shared.ErrInvoiceNotFound,
			phase:   "PURGING",
		},
		{
			name:    "surcharge lookup fails after freight was written",
			setup:   func(f *fixture) { f.scope.surchargeErr = errors.New("connection reset by peer") },
			patch:   map[string]any{"portOfDischarge": "USLAX"},
			wantErr: shared.ErrTransactionFailure,
			phase:   "SURCHARGING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			draftBefore := f.store.drafts[f.draftNo]
			linesBefore := f.store.linesOf(f.invoiceID)
			totalBefore := f.invoice().TotalAmount

			result, err := f.service.AmendRoute(context.Background(), f.request(tt.patch))

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			assert.Equal(t, draftBefore, f.store.drafts[f.draftNo])
			assert.Equal(t, linesBefore, f.store.linesOf(f.invoiceID))
			assert.True(t, totalBefore.Equal(f.invoice().TotalAmount))
			assert.Zero(t, f.versionCount())

			require.Len(t, f.metrics.calls, 1)
			assert.Equal(t, "ROLLED_BACK", f.metrics.calls[0].outcome)
			assert.Equal(t, tt.phase, f.metrics.calls[0].phase)
		})
	}
}

func TestService_AmendRoute_Rejected(t *testing.T) {
	t.Run("invalid port never opens a transaction", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfLoading": "AEJE"}))

		assert.Equal(t, map[string]string{"portOfLoading": "Must be exactly 5 characters"}, fieldErrors(t, err))
		assert.Zero(t, f.scope.executions)
		require.Len(t, f.metrics.calls, 1)
		assert.Equal(t, recordedAmendment{outcome: "REJECTED", phase: "VALIDATING"}, f.metrics.calls[0])
	})

	t.Run("padded port never opens the transaction", func(t *testing.T) {
		f := newFixture(t)
		for _, port := range []string{"AEJE ", "     "} {
			_, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfDischarge": port}))

			assert.True(t, errors.Is(err, shared.ErrValidation), port)
			assert.Contains(t, fieldErrors(t, err), "portOfDischarge")
		}
		assert.Zero(t, f.scope.executions)
		assert.Equal(t, "USNYC", f.store.drafts[f.draftNo].PortOfDischarge)
	})

	t.Run("draft of another booking", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(map[string]any{"portOfDischarge": "USLAX"})
		req.BookingID = uuid.New().String()

		_, err := f.service.AmendRoute(context.Background(), req)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Zero(t, f.versionCount())
		assert.Equal(t, "REJECTED", f.metrics.calls[0].outcome)
	})

	t.Run("unknown draft", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(map[string]any{"portOfDischarge": "USLAX"})
		req.DraftNo = uuid.New().String()

		_, err := f.service.AmendRoute(context.Background(), req)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestService_AmendRoute_RepeatedAmendments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.AmendRoute(ctx, f.request(map[string]any{"portOfDischarge": "USLAX"}))
	require.NoError(t, err)
	result, err := f.service.AmendRoute(ctx, f.request(map[string]any{"portOfDischarge": "USNYC"}))
	require.NoError(t, err)

	// Back on AEX1: freight 2x1x1000 + 1x2x900, BAF 300 + 300, manual 75
	assert.Equal(t, "4475", result.InvoiceTotal.String())
	assert.Equal(t, []string{"2000", "1800"}, amounts(f.linesByRef(billing.LineReferenceBaseFreight)))
	assertTotalMatchesLines(t, f)

	versions, err := f.service.ListVersions(ctx, f.bookingID.String(), f.draftNo.String())
	require.NoError(t, err)
	require.Len(t, versions, 4)
	for i, v := range versions {
		assert.Equal(t, i+1, v.Sequence)
	}
	assert.Equal(t, "USLAX", versions[2].Snapshot.PortOfDischarge)
	assert.Equal(t, "USNYC", versions[3].Snapshot.PortOfDischarge)
}

func TestService_AmendRoute_ResolvesTariffOncePerGroup(t *testing.T) {
	f := newFixture(t)
	booking := f.store.bookings[f.bookingID]
	booking.Containers = append(booking.Containers, shipping.BookingContainer{
		ID: uuid.New(), BookingID: f.bookingID, LineNo: 3, ISOCode: "22G1", Quantity: 3,
	})
	f.store.bookings[f.bookingID] = booking

	result, err := f.service.AmendRoute(context.Background(), f.request(map[string]any{"portOfDischarge": "USLAX"}))

	require.NoError(t, err)
	assert.Equal(t, 2, f.scope.tariffCalls)
	assert.Equal(t, []string{"2400", "2200", "3600"}, amounts(f.linesByRef(billing.LineReferenceBaseFreight)))
	assert.Equal(t, 8, result.LinesWritten)
	assertTotalMatchesLines(t, f)
}

func TestService_ListVersions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	versions, err := f.service.ListVersions(ctx, f.bookingID.String(), f.draftNo.String())
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, err = f.service.ListVersions(ctx, uuid.New().String(), f.draftNo.String())
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.service.ListVersions(ctx, "nope", f.draftNo.String())
	assert.Equal(t, map[string]string{"bookingId": "Invalid UUID format"}, fieldErrors(t, err))
}
