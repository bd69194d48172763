package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestAmendmentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewAmendmentMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAmendment(ctx, "COMMITTED", "ARCHIVING_AFTER", true, 40*time.Millisecond)
	m.RecordAmendment(ctx, "COMMITTED", "ARCHIVING_AFTER", true, 60*time.Millisecond)
	m.RecordAmendment(ctx, "ROLLED_BACK", "SURCHARGING", true, 10*time.Millisecond)

	metrics := collect(t, reader)

	sum, ok := metrics["bl_draft.amendments"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		outcome, _ := dp.Attributes.Value(AttrOutcome)
		counts[outcome.AsString()] = dp.Value
		if outcome.AsString() == "ROLLED_BACK" {
			phase, found := dp.Attributes.Value(AttrFailedPhase)
			assert.True(t, found)
			assert.Equal(t, "SURCHARGING", phase.AsString())
		} else {
			assert.False(t, dp.Attributes.HasValue(AttrFailedPhase))
		}
	}
	assert.Equal(t, map[string]int64{"COMMITTED": 2, "ROLLED_BACK": 1}, counts)

	hist, ok := metrics["bl_draft.amendment.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	committed := attribute.NewSet(AttrOutcome.String("COMMITTED"))
	for _, dp := range hist.DataPoints {
		if dp.Attributes.Equals(&committed) {
			assert.Equal(t, uint64(2), dp.Count)
			assert.InDelta(t, 0.1, dp.Sum, 1e-9)
		}
	}
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
