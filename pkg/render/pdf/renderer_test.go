package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Title:       "Weekly Analytics Report",
		Mode:        domain.ModeFull,
		GeneratedAt: time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
		Period: domain.TimePeriod{
			Start:    time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			End:      time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Duration: 7,
		},
		Sections: []domain.Section{
			{
				Title: "KPI Snapshot",
				Blocks: []domain.Block{
					{Kind: domain.BlockText, Text: "Data completeness: 1 of 2 sources reported."},
					{Kind: domain.BlockTable, Table: &domain.Table{
						Columns: []string{"KPI", "Value"},
						Rows:    [][]string{{"Revenue Shopify (7d)", "1 250 EUR"}, {"Sessions (7d)", "—"}},
					}},
				},
			},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderWithCharts(t *testing.T) {
	report := sampleReport()
	report.Sections = append(report.Sections, domain.Section{
		Title: "Business Revenue",
		Blocks: []domain.Block{
			{Kind: domain.BlockChart, Chart: &domain.Chart{
				Title: "Daily Revenue",
				Kind:  domain.ChartTrend,
				Lines: []domain.ChartLine{{
					Name: "shopify",
					Dates: []time.Time{
						time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
						time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
						time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
					},
					Values: []float64{120, 150.5, 90},
				}},
			}},
			{Kind: domain.BlockChart, Chart: &domain.Chart{
				Title: "Sessions by Channel",
				Kind:  domain.ChartBars,
				Bars: []domain.ChartBar{
					{Label: "organic", Value: 1200},
					{Label: "paid", Value: 800},
				},
			}},
		},
	})

	out, err := Render(context.Background(), report)
	require.NoError(t, err)
	assert.Greater(t, len(out), 2000)
}

func TestRenderSkipsEmptyChartData(t *testing.T) {
	report := sampleReport()
	report.Sections = append(report.Sections, domain.Section{
		Title: "Business Revenue",
		Blocks: []domain.Block{
			{Kind: domain.BlockChart, Chart: &domain.Chart{
				Title: "Daily Revenue",
				Kind:  domain.ChartTrend,
				Lines: []domain.ChartLine{{
					Name:   "shopify",
					Dates:  []time.Time{time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
					Values: []float64{120},
				}},
			}},
		},
	})

	out, err := Render(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestChartPNGGuards(t *testing.T) {
	t.Run("trend with one point is not drawable", func(t *testing.T) {
		_, ok, err := renderChartPNG(&domain.Chart{
			Kind:  domain.ChartTrend,
			Lines: []domain.ChartLine{{Name: "ga4", Dates: []time.Time{time.Now()}, Values: []float64{1}}},
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("bars without data are not drawable", func(t *testing.T) {
		_, ok, err := renderChartPNG(&domain.Chart{Kind: domain.ChartBars})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
