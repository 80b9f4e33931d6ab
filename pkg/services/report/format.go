package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

// Placeholder marks a cell whose backing value is absent, so a reader can
// tell "missing" from "zero".
const Placeholder = "—"

// FormatNumber renders a plain numeric cell: values at or above 1000 are
// grouped with a space separator and no decimals, smaller values keep two
// decimals. Text values pass through, missing values render the placeholder.
func FormatNumber(v domain.Value) string {
	switch v.Kind {
	case domain.ValueMissing:
		return Placeholder
	case domain.ValueText:
		return v.Raw
	}
	if math.Abs(v.Num) >= 1000 {
		return groupThousands(v.Num)
	}
	return fmt.Sprintf("%.2f", v.Num)
}

// FormatPercent renders a ratio as a pre-multiplied percentage.
func FormatPercent(v domain.Value) string {
	switch v.Kind {
	case domain.ValueMissing:
		return Placeholder
	case domain.ValueText:
		return v.Raw
	}
	return fmt.Sprintf("%.1f%%", v.Num*100)
}

// FormatKPI renders a derived KPI cell according to its declared kind.
func FormatKPI(k kpi.KPI, currency string) string {
	switch k.Kind {
	case kpi.KindPercent:
		return FormatPercent(k.Value)
	case kpi.KindCurrency:
		if !k.Value.IsNumber() {
			return FormatNumber(k.Value)
		}
		return FormatNumber(k.Value) + " " + currency
	default:
		return FormatNumber(k.Value)
	}
}

// FormatDelta renders a period-over-period change with an explicit sign,
// or the placeholder when no prior period was supplied.
func FormatDelta(v domain.Value) string {
	if !v.IsNumber() {
		return Placeholder
	}
	return fmt.Sprintf("%+.1f%%", v.Num)
}

// groupThousands formats with zero decimals and a space as the
// thousands separator.
func groupThousands(f float64) string {
	s := fmt.Sprintf("%.0f", f)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}
