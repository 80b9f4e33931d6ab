package kpi

import (
	"sort"
	"time"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

// FoldedSeries is one named series aligned across sources: every date
// observed by any source appears once, with per-source values padded to
// Missing where a source has no observation for that date.
type FoldedSeries struct {
	Series  string
	Dates   []time.Time
	Sources []string
	Values  map[string][]domain.Value
}

// Empty reports whether the fold produced no observations at all.
func (f FoldedSeries) Empty() bool {
	return len(f.Dates) == 0
}

// Fold collects every point sharing the series name, outer-joins them by
// date, and returns the chronologically sorted alignment.
func Fold(points []domain.TimeSeriesPoint, series string) FoldedSeries {
	folded := FoldedSeries{Series: series, Values: make(map[string][]domain.Value)}

	dateSet := make(map[time.Time]struct{})
	observed := make(map[string]map[time.Time]float64)
	for _, p := range points {
		if p.Series != series {
			continue
		}
		if _, ok := observed[p.Source]; !ok {
			observed[p.Source] = make(map[time.Time]float64)
			folded.Sources = append(folded.Sources, p.Source)
		}
		observed[p.Source][p.Date] = p.Value
		dateSet[p.Date] = struct{}{}
	}

	for d := range dateSet {
		folded.Dates = append(folded.Dates, d)
	}
	sort.Slice(folded.Dates, func(i, j int) bool { return folded.Dates[i].Before(folded.Dates[j]) })
	sort.Strings(folded.Sources)

	for _, source := range folded.Sources {
		values := make([]domain.Value, 0, len(folded.Dates))
		for _, d := range folded.Dates {
			if v, ok := observed[source][d]; ok {
				values = append(values, domain.Number(v))
			} else {
				values = append(values, domain.Missing())
			}
		}
		folded.Values[source] = values
	}
	return folded
}
