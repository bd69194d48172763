package amendment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory database. memScope runs each unit of work on a
// copy and only keeps it when the callback succeeds.
type memStore struct {
	bookings       map[uuid.UUID]shipping.Booking
	drafts         map[uuid.UUID]shipping.BLDraft
	versions       []shipping.BLDraftVersion
	invoices       map[uuid.UUID]billing.Invoice // keyed by booking
	lines          []billing.InvoiceLine
	routings       []rating.QuotationRouting
	containerTypes map[string]rating.ContainerType
	tariffs        []rating.Tariff
	surcharges     []rating.SurchargeRate
}

func newMemStore() *memStore {
	return &memStore{
		bookings:       map[uuid.UUID]shipping.Booking{},
		drafts:         map[uuid.UUID]shipping.BLDraft{},
		invoices:       map[uuid.UUID]billing.Invoice{},
		containerTypes: map[string]rating.ContainerType{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.drafts {
		c.drafts[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.containerTypes {
		c.containerTypes[k] = v
	}
	c.versions = append([]shipping.BLDraftVersion(nil), s.versions...)
	c.lines = append([]billing.InvoiceLine(nil), s.lines...)
	c.routings = append([]rating.QuotationRouting(nil), s.routings...)
	c.tariffs = append([]rating.Tariff(nil), s.tariffs...)
	c.surcharges = append([]rating.SurchargeRate(nil), s.surcharges...)
	return c
}

func (s *memStore) linesOf(invoiceID uuid.UUID) []billing.InvoiceLine {
	var out []billing.InvoiceLine
	for _, l := range s.lines {
		if l.InvoiceID == invoiceID {
			out = append(out, l)
		}
	}
	return out
}

type memScope struct {
	store      *memStore
	executions int
	// surchargeErr makes FindSurchargeRates fail inside the transaction
	surchargeErr error
	tariffCalls  int
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executions++
	work := s.store.clone()
	if err := fn(&memRepos{store: work, scope: s}); err != nil {
		return err
	}
	*s.store = *work
	return nil
}

type memRepos struct {
	store *memStore
	scope *memScope
}

func (r *memRepos) Bookings() shipping.BookingRepository { return memBookings{r} }
func (r *memRepos) Drafts() shipping.BLDraftRepository { return memDrafts{r} }
func (r *memRepos) Versions() shipping.BLDraftVersionRepository { return memVersions{r} }
func (r *memRepos) Invoices() billing.InvoiceRepository { return memInvoices{r} }
func (r *memRepos) InvoiceLines() billing.InvoiceLineRepository { return memLines{r} }
func (r *memRepos) ReferenceData() rating.ReferenceDataGateway { return memReference{r} }

type memBookings struct{ *memRepos }

func (b memBookings) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*shipping.Booking, error) {
	booking, ok := b.store.bookings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &booking, nil
}

type memDrafts struct{ *memRepos }

func (d memDrafts) FindByKey(_ context.Context, key shipping.DraftKey) (*shipping.BLDraft, error) {
	draft, ok := d.store.drafts[key.DraftNo]
	if !ok || draft.BookingID != key.BookingID {
		return nil, shared.ErrNotFound
	}
	return &draft, nil
}

func (d memDrafts) FindByKeyForUpdate(ctx context.Context, key shipping.DraftKey) (*shipping.BLDraft, error) {
	return d.FindByKey(ctx, key)
}

func (d memDrafts) Save(_ context.Context, draft *shipping.BLDraft) error {
	if _, ok := d.store.drafts[draft.ID]; !ok {
		return shared.ErrNotFound
	}
	d.store.drafts[draft.ID] = *draft
	return nil
}

type memVersions struct{ *memRepos }

func (v memVersions) NextSequence(_ context.Context, draftNo uuid.UUID) (int, error) {
	last := 0
	for _, ver := range v.store.versions {
		if ver.DraftNo == draftNo && ver.Sequence > last {
			last = ver.Sequence
		}
	}
	return last + 1, nil
}

func (v memVersions) Append(_ context.Context, version *shipping.BLDraftVersion) error {
	for _, ver := range v.store.versions {
		if ver.DraftNo == version.DraftNo && ver.Sequence == version.Sequence {
			return errors.New("duplicate version sequence")
		}
	}
	v.store.versions = append(v.store.versions, *version)
	return nil
}

func (v memVersions) ListByDraft(_ context.Context, draftNo uuid.UUID) ([]shipping.BLDraftVersion, error) {
	var out []shipping.BLDraftVersion
	for _, ver := range v.store.versions {
		if ver.DraftNo == draftNo {
			out = append(out, ver)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

type memInvoices struct{ *memRepos }

func (i memInvoices) FindByBookingForUpdate(_ context.Context, bookingID uuid.UUID) (*billing.Invoice, error) {
	inv, ok := i.store.invoices[bookingID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inv, nil
}

func (i memInvoices) UpdateTotal(_ context.Context, invoiceID uuid.UUID, total decimal.Decimal) error {
	for k, inv := range i.store.invoices {
		if inv.ID == invoiceID {
			inv.TotalAmount = total
			i.store.invoices[k] = inv
			return nil
		}
	}
	return shared.ErrNotFound
}

type memLines struct{ *memRepos }

func (l memLines) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]billing.InvoiceLine, error) {
	return l.store.linesOf(invoiceID), nil
}

func (l memLines) DeleteByReferences(_ context.Context, invoiceID uuid.UUID, refs ...billing.LineReference) (int64, error) {
	kept := l.store.lines[:0:0]
	var removed int64
	for _, line := range l.store.lines {
		match := false
		for _, ref := range refs {
			if line.InvoiceID == invoiceID && line.Reference == ref {
				match = true
			}
		}
		if match {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	l.store.lines = kept
	return removed, nil
}

func (l memLines) CreateBatch(_ context.Context, lines []billing.InvoiceLine) error {
	for _, line := range lines {
		if line.Reference == billing.LineReferenceAmendFee {
			for _, existing := range l.store.lines {
				if existing.InvoiceID == line.InvoiceID && existing.Reference == billing.LineReferenceAmendFee {
					return errors.New("duplicate AMEND_FEE line")
				}
			}
		}
		l.store.lines = append(l.store.lines, line)
	}
	return nil
}

func (l memLines) ExistsByReference(_ context.Context, invoiceID uuid.UUID, ref billing.LineReference) (bool, error) {
	for _, line := range l.store.lines {
		if line.InvoiceID == invoiceID && line.Reference == ref {
			return true, nil
		}
	}
	return false, nil
}

type memReference struct{ *memRepos }

func (m memReference) FindRouting(_ context.Context, quotationID uuid.UUID, pol, pod string) (*rating.QuotationRouting, error) {
	for _, r := range m.store.routings {
		if r.QuotationID == quotationID && r.POL == pol && r.POD == pod {
			routing := r
			return &routing, nil
		}
	}
	return nil, shared.ErrRouteNotFound
}

func (m memReference) FindContainerType(_ context.Context, isoCode string) (*rating.ContainerType, error) {
	ct, ok := m.store.containerTypes[isoCode]
	if !ok {
		return nil, shared.ErrContainerTypeNotFound
	}
	return &ct, nil
}

func (m memReference) FindCurrentTariffs(_ context.Context, key rating.TariffKey, asOf time.Time) ([]rating.Tariff, error) {
	m.scope.tariffCalls++
	var out []rating.Tariff
	for _, t := range m.store.tariffs {
		if t.Key() == key && t.IsCurrent(asOf) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memReference) FindSurchargeRates(_ context.Context, isoCode string) ([]rating.SurchargeRate, error) {
	if m.scope.surchargeErr != nil {
		return nil, m.scope.surchargeErr
	}
	var out []rating.SurchargeRate
	for _, r := range m.store.surcharges {
		if r.ContainerISOCode == isoCode {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m memReference) FindFeeRates(_ context.Context, defName string) ([]rating.SurchargeRate, error) {
	var out []rating.SurchargeRate
	for _, r := range m.store.surcharges {
		if r.Def.Name == defName {
			out = append(out, r)
		}
	}
	return out, nil
}

// recordedAmendment is one call to a metricsSpy
type recordedAmendment struct {
	outcome      string
	phase        string
	routeChanged bool
}

type metricsSpy struct {
	calls []recordedAmendment
}

func (m *metricsSpy) RecordAmendment(_ context.Context, outcome, phase string, routeChanged bool, _ time.Duration) {
	m.calls = append(m.calls, recordedAmendment{outcome: outcome, phase: phase, routeChanged: routeChanged})
}
