package domain

import "time"

// TimeSeriesPoint is one observation on one day for one named series.
// At most one point exists per (date, source, series); merging keeps the
// most recently loaded value.
type TimeSeriesPoint struct {
	Date   time.Time
	Source string
	Series string
	Value  float64
}

// ChannelRow is one acquisition channel's contribution within the
// reporting window, as exported by the web-analytics breakdown.
type ChannelRow struct {
	Channel      string
	Medium       string
	SourceDetail string
	Sessions     float64
	Conversions  float64
	Revenue      float64
}

// SourceStatus records whether a source contributed anything to the run.
// It feeds the data completeness summary at the top of the report.
type SourceStatus struct {
	Name      string
	Available bool
}

// Extract is everything one reporting run reads from the ledger directory:
// the unified ledger, every daily time series, the channel breakdown, and
// the per-source availability, in source-priority order.
type Extract struct {
	Ledger   *Ledger
	Series   []TimeSeriesPoint
	Channels []ChannelRow
	Sources  []SourceStatus
}
