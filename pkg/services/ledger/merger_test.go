package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestMergeSummaries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shopify_metrics.csv", "Metric,Value\nrevenue_7d,1250.50\naov_7d,62.52\n")
	writeFile(t, dir, "ga4_metrics.csv", "metric,value\nsessions_7d,4800\nrevenue_7d,1190\n")

	m := NewMerger([]config.SourceSpec{
		{Name: "shopify", File: "shopify_metrics.csv"},
		{Name: "ga4", File: "ga4_metrics.csv"},
	})
	extract := m.Merge(context.Background(), dir)

	assert.Equal(t, 4, extract.Ledger.Len())

	v := extract.Ledger.Get("shopify", "revenue_7d")
	require.True(t, v.IsNumber())
	assert.InDelta(t, 1250.50, v.Float(), 0.001)

	v = extract.Ledger.Get("ga4", "revenue_7d")
	require.True(t, v.IsNumber())
	assert.InDelta(t, 1190, v.Float(), 0.001)
}

func TestMergeMissingAndMalformedSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ga4_metrics.csv", "metric,value\nsessions_7d,4800\n")
	writeFile(t, dir, "meta_metrics.csv", "spend,clicks\n100,200\n")

	m := NewMerger([]config.SourceSpec{
		{Name: "shopify", File: "shopify_metrics.csv"},
		{Name: "ga4", File: "ga4_metrics.csv"},
		{Name: "meta", File: "meta_metrics.csv"},
	})
	extract := m.Merge(context.Background(), dir)

	assert.Equal(t, 1, extract.Ledger.Len())

	require.Len(t, extract.Sources, 3)
	assert.Equal(t, domain.SourceStatus{Name: "shopify", Available: false}, extract.Sources[0])
	assert.Equal(t, domain.SourceStatus{Name: "ga4", Available: true}, extract.Sources[1])
	assert.Equal(t, domain.SourceStatus{Name: "meta", Available: false}, extract.Sources[2])
}

func TestMergeDropsIncompleteRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ga4_metrics.csv", "metric,value\nsessions_7d,4800\n,12\nbounce_rate,\nstatus,healthy\n")

	m := NewMerger([]config.SourceSpec{{Name: "ga4", File: "ga4_metrics.csv"}})
	extract := m.Merge(context.Background(), dir)

	assert.Equal(t, 3, extract.Ledger.Len())

	v := extract.Ledger.Get("ga4", "bounce_rate")
	assert.True(t, v.IsMissing())

	v = extract.Ledger.Get("ga4", "status")
	require.False(t, v.IsNumber())
	assert.Equal(t, "healthy", v.String())
}

func TestMergeOverwritesDuplicateMetric(t *testing.T) {
	dir := t.TempDir()
	m := NewMerger([]config.SourceSpec{{Name: "shopify", File: "shopify_metrics.csv"}})

	writeFile(t, dir, "shopify_metrics.csv", "metric,value\nRevenue (7d),100\n")
	extract := m.Merge(context.Background(), dir)
	require.Equal(t, 1, extract.Ledger.Len())
	assert.InDelta(t, 100, extract.Ledger.Get("shopify", "Revenue (7d)").Float(), 0.001)

	// re-exported file with an updated value yields one row, not two
	writeFile(t, dir, "shopify_metrics.csv", "metric,value\nRevenue (7d),150\n")
	extract = m.Merge(context.Background(), dir)
	require.Equal(t, 1, extract.Ledger.Len())
	assert.InDelta(t, 150, extract.Ledger.Get("shopify", "Revenue (7d)").Float(), 0.001)
}

func TestMergeDuplicateRowsLastWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shopify_metrics.csv", "metric,value\nRevenue (7d),100\nRevenue (7d),150\n")

	m := NewMerger([]config.SourceSpec{{Name: "shopify", File: "shopify_metrics.csv"}})
	extract := m.Merge(context.Background(), dir)

	require.Equal(t, 1, extract.Ledger.Len())
	assert.InDelta(t, 150, extract.Ledger.Get("shopify", "Revenue (7d)").Float(), 0.001)
}

func TestMergeTimeSeries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ga4_metrics.csv", "metric,value\nsessions_7d,100\n")
	writeFile(t, dir, "ga4_timeseries.csv",
		"date,Revenue,sessions\n2026-08-25,150.5,640\n2026-08-24,120,590\nnot-a-date,1,2\n")

	m := NewMerger([]config.SourceSpec{{Name: "ga4", File: "ga4_metrics.csv"}})
	extract := m.Merge(context.Background(), dir)

	require.Len(t, extract.Series, 4)
	// sorted by date then series, column names lowercased
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), extract.Series[0].Date)
	assert.Equal(t, "revenue", extract.Series[0].Series)
	assert.InDelta(t, 120, extract.Series[0].Value, 0.001)
	assert.Equal(t, "sessions", extract.Series[1].Series)
	assert.Equal(t, "ga4", extract.Series[1].Source)
}

func TestMergeTimeSeriesLastLoadedWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ga4_timeseries.csv",
		"date,revenue\n2026-08-25,100\n2026-08-25,175\n")

	m := NewMerger([]config.SourceSpec{{Name: "ga4", File: "ga4_metrics.csv"}})
	extract := m.Merge(context.Background(), dir)

	require.Len(t, extract.Series, 1)
	assert.InDelta(t, 175, extract.Series[0].Value, 0.001)
}

func TestMergeChannels(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ga4_sources.csv",
		"channel,medium,source,sessions,conversions,revenue\nOrganic Search,organic,google,1200,36,820.40\nPaid Social,cpc,facebook,800,30,610\n")

	m := NewMerger([]config.SourceSpec{{Name: "ga4", File: "ga4_metrics.csv"}})
	extract := m.Merge(context.Background(), dir)

	require.Len(t, extract.Channels, 2)
	assert.Equal(t, "Organic Search", extract.Channels[0].Channel)
	assert.Equal(t, "google", extract.Channels[0].SourceDetail)
	assert.InDelta(t, 1200, extract.Channels[0].Sessions, 0.001)
	assert.InDelta(t, 610, extract.Channels[1].Revenue, 0.001)
}

func TestMergeEmptyDirectory(t *testing.T) {
	m := NewMerger(config.Default().Sources)
	extract := m.Merge(context.Background(), t.TempDir())

	assert.Equal(t, 0, extract.Ledger.Len())
	assert.Empty(t, extract.Series)
	assert.Empty(t, extract.Channels)
	for _, s := range extract.Sources {
		assert.False(t, s.Available)
	}
}
