package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AmendmentMetrics counts route amendments by outcome and records their latency
type AmendmentMetrics struct {
	total    *Counter
	duration *Histogram
}

// NewAmendmentMetrics creates the amendment instruments on meter
func NewAmendmentMetrics(meter metric.Meter) (*AmendmentMetrics, error) {
	total, err := NewCounter(meter, "bl_draft.amendments", "Route amendments by outcome", "{amendment}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "bl_draft.amendment.duration",
		Description: "Route amendment latency including lock waits",
		Unit:        "s",
		Boundaries:  AmendmentDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &AmendmentMetrics{total: total, duration: duration}, nil
}

// RecordAmendment records one finished amendment. phase is the last phase
// reached before the outcome.
func (m *AmendmentMetrics) RecordAmendment(ctx context.Context, outcome, phase string, routeChanged bool, d time.Duration) {
	attrs := []attribute.KeyValue{
		AttrOutcome.String(outcome),
		AttrRouteChanged.Bool(routeChanged),
	}
	if outcome != "COMMITTED" {
		attrs = append(attrs, AttrFailedPhase.String(phase))
	}
	m.total.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}
