package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    domain.Value
		expected string
	}{
		{"large grouped with spaces", domain.Number(1250000), "1 250 000"},
		{"boundary at one thousand", domain.Number(1000), "1 000"},
		{"small keeps two decimals", domain.Number(62.521), "62.52"},
		{"zero is a real number", domain.Number(0), "0.00"},
		{"negative grouped", domain.Number(-12345), "-12 345"},
		{"missing renders placeholder", domain.Missing(), "—"},
		{"text passes through", domain.Text("healthy"), "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.value))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "55.0%", FormatPercent(domain.Number(0.55)))
	assert.Equal(t, "2.0%", FormatPercent(domain.Number(0.02)))
	assert.Equal(t, "—", FormatPercent(domain.Missing()))
}

func TestFormatKPI(t *testing.T) {
	currency := kpi.KPI{Name: "Revenue Shopify (7d)", Kind: kpi.KindCurrency, Value: domain.Number(1250.5)}
	assert.Equal(t, "1 250 EUR", FormatKPI(currency, "EUR"))

	undefined := kpi.KPI{Name: "AOV (7d)", Kind: kpi.KindCurrency, Value: domain.Text("N/A")}
	assert.Equal(t, "N/A", FormatKPI(undefined, "EUR"))

	percent := kpi.KPI{Name: "Bounce Rate (%)", Kind: kpi.KindPercent, Value: domain.Number(0.42)}
	assert.Equal(t, "42.0%", FormatKPI(percent, "EUR"))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+20.0%", FormatDelta(domain.Number(20)))
	assert.Equal(t, "-8.5%", FormatDelta(domain.Number(-8.5)))
	assert.Equal(t, "—", FormatDelta(domain.Missing()))
}
