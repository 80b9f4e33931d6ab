package pdf

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

const (
	chartWidth  = 1024
	chartHeight = 420
)

// renderChartPNG draws one composed chart to a PNG buffer. ok is false
// when the chart has too little data to draw, which the caller renders
// as a placeholder rather than a blank figure.
func renderChartPNG(c *domain.Chart) (png []byte, ok bool, err error) {
	switch c.Kind {
	case domain.ChartTrend:
		return renderTrend(c)
	case domain.ChartBars:
		return renderBars(c)
	default:
		return nil, false, fmt.Errorf("unknown chart kind %d", c.Kind)
	}
}

func renderTrend(c *domain.Chart) ([]byte, bool, error) {
	var series []chart.Series
	for _, line := range c.Lines {
		// a trend line needs at least two observations
		if len(line.Dates) < 2 {
			continue
		}
		series = append(series, chart.TimeSeries{
			Name:    line.Name,
			XValues: line.Dates,
			YValues: line.Values,
		})
	}
	if len(series) == 0 {
		return nil, false, nil
	}

	graph := chart.Chart{
		Title:  c.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, false, fmt.Errorf("failed to render trend chart: %w", err)
	}
	return buf.Bytes(), true, nil
}

func renderBars(c *domain.Chart) ([]byte, bool, error) {
	if len(c.Bars) == 0 {
		return nil, false, nil
	}

	values := make([]chart.Value, 0, len(c.Bars))
	for _, b := range c.Bars {
		values = append(values, chart.Value{Label: b.Label, Value: b.Value})
	}

	graph := chart.BarChart{
		Title:    c.Title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, false, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return buf.Bytes(), true, nil
}
