package amendment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shipdesk/backend/internal/domain/shipping"
	"github.com/shipdesk/backend/internal/infrastructure/logger"
	"github.com/shipdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds the charge posting parameters of the amendment engine
type Config struct {
	LateFeeSurchargeName string
	FreightGLCode        string
	SurchargeGLCode      string
	FeeGLCode            string
	CostCenter           string
}

// MetricsRecorder receives the outcome of every amendment
type MetricsRecorder interface {
	RecordAmendment(ctx context.Context, outcome, phase string, routeChanged bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordAmendment(context.Context, string, string, bool, time.Duration) {}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Service coordinates BL draft route amendments
type Service struct {
	scope     TransactionScope
	validator *PatchValidator
	cutoff    shipping.CutoffPolicy
	archiver  DraftArchiver
	freight   rating.FreightCalculator
	surcharge rating.SurchargeApplier
	feeGuard  FeeGuard
	cfg       Config
	logger    *zap.Logger
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewService creates a new amendment Service
func NewService(scope TransactionScope, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		scope:     scope,
		validator: NewPatchValidator(),
		feeGuard: FeeGuard{
			SurchargeName: cfg.LateFeeSurchargeName,
			GLCode:        cfg.FeeGLCode,
			CostCenter:    cfg.CostCenter,
		},
		cfg:     cfg,
		logger:  logger,
		metrics: noopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// amendmentRun carries the state of one AmendRoute call
type amendmentRun struct {
	req      *ValidatedAmendment
	now      time.Time
	phases   *phaseTracker
	rejected bool
	result   AmendmentResult
}

// AmendRoute applies a port change to a BL draft and reprices the booking's
// invoice in one transaction. Nothing is persisted unless every step succeeds.
func (s *Service) AmendRoute(ctx context.Context, req AmendRouteRequest) (*AmendmentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bl_draft", "amend_route")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBookingID, req.BookingID,
		telemetry.SpanAttrDraftNo, req.DraftNo,
	)

	started := s.now()
	log := logger.WithLogger(ctx, s.logger).With(zap.String("booking_id", req.BookingID), zap.String("draft_no", req.DraftNo))
	run := &amendmentRun{now: started}
	run.phases = newPhaseTracker(func(p Phase) {
		log.Debug("Amendment phase", zap.String("phase", p.String()))
	})

	err := s.amend(ctx, run, req)

	failedAt := run.phases.current
	switch {
	case err == nil:
		run.phases.enter(PhaseCommitted)
	case run.rejected:
		run.phases.enter(PhaseRejected)
	default:
		run.phases.enter(PhaseRolledBack)
	}
	run.result.Phase = run.phases.current

	s.metrics.RecordAmendment(ctx, run.result.Phase.String(), failedAt.String(), run.result.RouteChange.Changed, s.now().Sub(started))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPhase, run.result.Phase.String(),
		telemetry.SpanAttrRouteChanged, run.result.RouteChange.Changed,
	)

	if err != nil {
		telemetry.RecordError(span, err)
		if run.rejected {
			log.Info("Amendment rejected", zap.String("phase", failedAt.String()), zap.Error(err))
		} else {
			log.Warn("Amendment rolled back", zap.String("phase", failedAt.String()), zap.Error(err))
		}
		return nil, err
	}

	log.Info("Amendment committed",
		zap.Bool("route_changed", run.result.RouteChange.Changed),
		zap.Int("lines_written", run.result.LinesWritten),
		zap.Bool("fee_applied", run.result.FeeApplied),
	)
	return &run.result, nil
}

func (s *Service) amend(ctx context.Context, run *amendmentRun, req AmendRouteRequest) error {
	run.phases.enter(PhaseValidating)
	validated, err := s.validator.Validate(req)
	if err != nil {
		run.rejected = true
		return err
	}
	run.req = validated

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.amendInTx(ctx, run, repos)
	})
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.ErrTransactionFailure.WithCause(err)
}

func (s *Service) amendInTx(ctx context.Context, run *amendmentRun, repos TransactionalRepositories) error {
	key := run.req.Key

	// Lock order is booking, draft, invoice
	booking, err := repos.Bookings().FindByIDForUpdate(ctx, key.BookingID)
	if err != nil {
		run.rejected = errors.Is(err, shared.ErrNotFound)
		return err
	}
	draft, err := repos.Drafts().FindByKeyForUpdate(ctx, key)
	if err != nil {
		run.rejected = errors.Is(err, shared.ErrNotFound)
		return err
	}

	if err := s.cutoff.Enforce(booking, run.now); err != nil {
		run.rejected = true
		return err
	}
	run.phases.enter(PhaseCutoffChecked)

	run.phases.enter(PhaseArchivingBefore)
	if _, err := s.archiver.Archive(ctx, repos.Versions(), draft, shipping.VersionPhaseBefore, run.req.Actor, run.now); err != nil {
		return err
	}

	run.phases.enter(PhaseMutating)
	change := shipping.DetectRouteChange(draft.Route(), run.req.Patch)
	draft.ApplyPatch(run.req.Patch, run.now)
	if err := repos.Drafts().Save(ctx, draft); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	run.result.RouteChange = change

	if change.Changed {
		if err := s.reprice(ctx, run, repos, booking, change.Next); err != nil {
			return err
		}
	} else {
		run.phases.enter(PhaseRouteUnchanged)
	}

	run.phases.enter(PhaseArchivingAfter)
	if _, err := s.archiver.Archive(ctx, repos.Versions(), draft, shipping.VersionPhaseAfter, run.req.Actor, run.now); err != nil {
		return err
	}

	run.result.Draft = draft
	return nil
}

// pricedContainer is a manifest line with its resolved reference data
type pricedContainer struct {
	line   rating.ContainerLine
	ctype  *rating.ContainerType
	tariff *rating.Tariff
}

func (s *Service) reprice(ctx context.Context, run *amendmentRun, repos TransactionalRepositories, booking *shipping.Booking, route shipping.Route) error {
	run.phases.enter(PhasePurging)
	invoice, err := repos.Invoices().FindByBookingForUpdate(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInvoiceNotFound.WithMessage("Booking %s has no invoice", booking.ID)
		}
		return err
	}
	if _, err := repos.InvoiceLines().DeleteByReferences(ctx, invoice.ID, billing.RouteDependentReferences...); err != nil {
		return fmt.Errorf("failed to purge route-dependent lines: %w", err)
	}

	run.phases.enter(PhaseResolving)
	ref := repos.ReferenceData()
	routing, err := ref.FindRouting(ctx, booking.QuotationID, route.PortOfLoading, route.PortOfDischarge)
	if err != nil {
		return err
	}
	resolver := NewTariffResolver(ref)
	priced := make([]pricedContainer, 0, len(booking.Containers))
	for _, c := range booking.Containers {
		ct, err := ref.FindContainerType(ctx, c.ISOCode)
		if err != nil {
			return err
		}
		tariff, err := resolver.Resolve(ctx, rating.TariffKey{
			ServiceCode: routing.ServiceCode,
			POL:         route.PortOfLoading,
			POD:         route.PortOfDischarge,
			Commodity:   routing.Commodity,
			Group:       ct.Group,
		}, run.now)
		if err != nil {
			return err
		}
		priced = append(priced, pricedContainer{
			line:   rating.ContainerLine{ISOCode: c.ISOCode, Quantity: c.Quantity},
			ctype:  ct,
			tariff: tariff,
		})
	}

	run.phases.enter(PhaseCalculating)
	freightLines := make([]billing.InvoiceLine, 0, len(priced))
	for _, p := range priced {
		charge := s.freight.Calculate(p.line, *p.ctype, *p.tariff)
		freightLines = append(freightLines, s.toLine(invoice.ID, charge, run.now))
	}
	if err := repos.InvoiceLines().CreateBatch(ctx, freightLines); err != nil {
		return fmt.Errorf("failed to insert freight lines: %w", err)
	}
	run.result.LinesWritten += len(freightLines)

	run.phases.enter(PhaseSurcharging)
	for _, p := range priced {
		rates, err := ref.FindSurchargeRates(ctx, p.line.ISOCode)
		if err != nil {
			return fmt.Errorf("failed to load surcharge rates for %s: %w", p.line.ISOCode, err)
		}
		charges := s.surcharge.Apply(p.line, rates, routing.ServiceCode)
		if len(charges) == 0 {
			continue
		}
		lines := make([]billing.InvoiceLine, 0, len(charges))
		for _, c := range charges {
			lines = append(lines, s.toLine(invoice.ID, c, run.now))
		}
		if err := repos.InvoiceLines().CreateBatch(ctx, lines); err != nil {
			return fmt.Errorf("failed to insert surcharge lines: %w", err)
		}
		run.result.LinesWritten += len(lines)
	}

	run.phases.enter(PhaseFeeGuarding)
	// Enforce has already rejected every request made after the cutoff, so
	// LateFeeDue cannot be true here. Kept until product decides whether a
	// grace window was intended.
	if s.cutoff.LateFeeDue(booking, run.now) {
		applied, err := s.feeGuard.Apply(ctx, repos, invoice, run.now)
		if err != nil {
			return err
		}
		run.result.FeeApplied = applied
	}

	run.phases.enter(PhaseAggregating)
	all, err := repos.InvoiceLines().ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load invoice lines: %w", err)
	}
	total := invoice.Recalculate(all, run.now)
	if err := repos.Invoices().UpdateTotal(ctx, invoice.ID, total); err != nil {
		return fmt.Errorf("failed to update invoice total: %w", err)
	}
	run.result.InvoiceTotal = &total
	return nil
}

func (s *Service) toLine(invoiceID uuid.UUID, c rating.Charge, now time.Time) billing.InvoiceLine {
	ref := billing.LineReferenceBaseFreight
	gl := s.cfg.FreightGLCode
	if c.Kind == rating.ChargeKindSurcharge {
		ref = billing.LineReferenceSurcharge
		gl = s.cfg.SurchargeGLCode
	}
	if c.GLCode != nil {
		gl = *c.GLCode
	}
	return billing.NewInvoiceLine(invoiceID, ref, c.Description, c.Amount, gl, s.cfg.CostCenter, now)
}

// ListVersions returns the archived snapshots of a draft in sequence order
func (s *Service) ListVersions(ctx context.Context, bookingID, draftNo string) ([]shipping.BLDraftVersion, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bl_draft", "list_versions")
	defer span.End()

	key, err := s.parseKey(bookingID, draftNo)
	if err != nil {
		return nil, err
	}

	var versions []shipping.BLDraftVersion
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Drafts().FindByKey(ctx, key); err != nil {
			return err
		}
		var listErr error
		versions, listErr = repos.Versions().ListByDraft(ctx, key.DraftNo)
		return listErr
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return versions, nil
}

func (s *Service) parseKey(bookingID, draftNo string) (shipping.DraftKey, error) {
	var details []shared.FieldError
	b, err := uuid.Parse(bookingID)
	if err != nil {
		details = append(details, shared.FieldError{Field: "bookingId", Message: "Invalid UUID format"})
	}
	d, err := uuid.Parse(draftNo)
	if err != nil {
		details = append(details, shared.FieldError{Field: "draftNo", Message: "Invalid UUID format"})
	}
	if len(details) > 0 {
		return shipping.DraftKey{}, shared.NewValidationError(details)
	}
	return shipping.DraftKey{BookingID: b, DraftNo: d}, nil
}
