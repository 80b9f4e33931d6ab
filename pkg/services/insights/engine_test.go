package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

func deriveSet(t *testing.T, metrics map[string]map[string]float64) *kpi.Set {
	t.Helper()
	ledger := domain.NewLedger()
	for source, byMetric := range metrics {
		for metric, value := range byMetric {
			ledger.Put(domain.MetricRecord{Source: source, Metric: metric, Value: domain.Number(value)})
		}
	}
	return kpi.NewDeriver().Derive(context.Background(), ledger, nil)
}

func TestBounceRateInsight(t *testing.T) {
	set := deriveSet(t, map[string]map[string]float64{
		"ga4": {"bounce_rate": 0.55},
	})

	out := NewEngine(config.Default().Thresholds).Evaluate(context.Background(), set)

	require.Len(t, out, 1)
	assert.Equal(t, "Traffic Quality", out[0].Category)
	assert.Equal(t, domain.SeverityWarning, out[0].Severity)
	assert.Equal(t, domain.PriorityHigh, out[0].Priority)
	assert.NotEmpty(t, out[0].Recommendation)
}

func TestNominalInsightWhenNothingFires(t *testing.T) {
	set := deriveSet(t, nil)

	out := NewEngine(config.Default().Thresholds).Evaluate(context.Background(), set)

	require.Len(t, out, 1)
	assert.Equal(t, domain.SeveritySuccess, out[0].Severity)
	assert.Equal(t, "Overview", out[0].Category)
}

func TestSeverityOrdering(t *testing.T) {
	set := deriveSet(t, map[string]map[string]float64{
		"ga4":       {"bounce_rate": 0.60},
		"sentry":    {"crash_free_rate": 0.95},
		"amplitude": {"retention_d7": 0.30},
	})

	out := NewEngine(config.Default().Thresholds).Evaluate(context.Background(), set)

	require.Len(t, out, 3)
	assert.Equal(t, domain.SeverityCritical, out[0].Severity)
	assert.Equal(t, domain.SeverityWarning, out[1].Severity)
	assert.Equal(t, domain.SeveritySuccess, out[2].Severity)
}

func TestConversionRateIgnoredWithoutData(t *testing.T) {
	// conversions never reported, so the rate stays missing and the rule
	// cannot fire
	set := deriveSet(t, map[string]map[string]float64{
		"ga4": {"sessions_7d": 4000},
	})

	out := NewEngine(config.Default().Thresholds).Evaluate(context.Background(), set)

	for _, ins := range out {
		assert.NotEqual(t, "Conversion Optimization", ins.Category)
	}
}

func TestRevenueDiscrepancyInsight(t *testing.T) {
	set := deriveSet(t, map[string]map[string]float64{
		"shopify": {"revenue_7d": 1000},
		"ga4":     {"revenue_7d": 700},
	})

	out := NewEngine(config.Default().Thresholds).Evaluate(context.Background(), set)

	require.Len(t, out, 1)
	assert.Equal(t, "Data Quality", out[0].Category)
	assert.Equal(t, domain.SeverityWarning, out[0].Severity)
}

func TestThresholdOverrides(t *testing.T) {
	set := deriveSet(t, map[string]map[string]float64{
		"ga4": {"bounce_rate": 0.45},
	})

	th := config.Default().Thresholds
	th.BounceRateWarn = 0.40
	out := NewEngine(th).Evaluate(context.Background(), set)

	require.Len(t, out, 1)
	assert.Equal(t, "Traffic Quality", out[0].Category)
}
