package kpi

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

// Kind tells the renderer how a KPI value should be formatted.
type Kind int

const (
	KindNumber Kind = iota
	KindCurrency
	// KindPercent values are stored as ratios and multiplied by 100 for display.
	KindPercent
)

// KPI is one derived, display-ready number. Delta is the percent change
// against the previous period and stays Missing when no prior ledger was
// supplied or the change is undefined.
type KPI struct {
	Name  string
	Kind  Kind
	Value domain.Value
	Delta domain.Value
}

// Raw value names used by downstream rule evaluation.
const (
	RawRevenueShopify = "revenue_shopify"
	RawRevenueGA4     = "revenue_ga4"
	RawSessions       = "sessions"
	RawConversions    = "conversions"
	RawAOV            = "aov"
	RawConversionRate = "conversion_rate"
	RawBounceRate     = "bounce_rate"
	RawSpend          = "spend"
	RawROAS           = "roas"
	RawCrashFreeRate  = "crash_free_rate"
	RawRageClicks     = "rage_clicks"
	RawRetentionD7    = "retention_d7"
)

// Set is the derived KPI palette for one run: an ordered display list
// plus the underlying raw values keyed by name.
type Set struct {
	KPIs []KPI
	raw  map[string]domain.Value
}

// Raw returns the unformatted value behind a KPI, Missing when unknown.
func (s *Set) Raw(name string) domain.Value {
	if s == nil || s.raw == nil {
		return domain.Missing()
	}
	v, ok := s.raw[name]
	if !ok {
		return domain.Missing()
	}
	return v
}

type Deriver struct{}

func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive computes the fixed KPI palette from the merged ledger. previous
// may be nil; when given, each KPI carries a percent-change delta against
// the same derivation over the prior ledger. Derivation reads only the
// ledger, so equal ledgers always produce equal sets.
func (d *Deriver) Derive(ctx context.Context, ledger *domain.Ledger, previous *domain.Ledger) *Set {
	logger := zerolog.Ctx(ctx)

	set := derive(ledger)
	if previous != nil {
		prior := derive(previous)
		for i := range set.KPIs {
			set.KPIs[i].Delta = percentChange(set.KPIs[i].Value, prior.KPIs[i].Value)
		}
	}

	present := 0
	for _, k := range set.KPIs {
		if !k.Value.IsMissing() {
			present++
		}
	}
	logger.Debug().Int("kpis", len(set.KPIs)).Int("present", present).Msg("derived kpi palette")
	return set
}

func derive(ledger *domain.Ledger) *Set {
	metrics := normalizeLedger(ledger)

	revShopify := metrics.get("shopify", "revenue_7d", "revenue")
	revGA4 := metrics.get("ga4", "revenue_7d", "revenue")
	sessions := metrics.get("ga4", "sessions_7d", "sessions")
	conversions := firstPresent(
		metrics.get("shopify", "conversions_7d", "conversions", "orders_7d", "orders"),
		metrics.get("ga4", "conversions_7d", "conversions"),
	)
	bounce := asRatio(metrics.get("ga4", "bounce_rate", "bounce_rate_7d"))
	spend := metrics.get("meta", "spend_7d", "spend", "ad_spend_7d")
	crashFree := asRatio(metrics.get("sentry", "crash_free_rate", "crash_free_sessions"))
	rageClicks := metrics.get("hotjar", "rage_clicks_7d", "rage_clicks")
	retention := asRatio(metrics.get("amplitude", "retention_d7", "d7_retention"))

	revenue := firstPresent(revShopify, revGA4)
	aov := divide(revenue, conversions)
	convRate := divide(conversions, sessions)
	roas := firstPresent(metrics.get("meta", "roas_7d", "roas"), divide(revenue, spend))

	set := &Set{raw: map[string]domain.Value{
		RawRevenueShopify: revShopify,
		RawRevenueGA4:     revGA4,
		RawSessions:       sessions,
		RawConversions:    conversions,
		RawAOV:            aov,
		RawConversionRate: convRate,
		RawBounceRate:     bounce,
		RawSpend:          spend,
		RawROAS:           roas,
		RawCrashFreeRate:  crashFree,
		RawRageClicks:     rageClicks,
		RawRetentionD7:    retention,
	}}

	set.KPIs = []KPI{
		{Name: "Revenue Shopify (7d)", Kind: KindCurrency, Value: revShopify, Delta: domain.Missing()},
		{Name: "Revenue GA4 (7d)", Kind: KindCurrency, Value: revGA4, Delta: domain.Missing()},
		{Name: "Sessions (7d)", Kind: KindNumber, Value: sessions, Delta: domain.Missing()},
		{Name: "Conversions (7d)", Kind: KindNumber, Value: conversions, Delta: domain.Missing()},
		{Name: "AOV (7d)", Kind: KindCurrency, Value: aov, Delta: domain.Missing()},
		{Name: "Conversion Rate (%)", Kind: KindPercent, Value: convRate, Delta: domain.Missing()},
		{Name: "Bounce Rate (%)", Kind: KindPercent, Value: bounce, Delta: domain.Missing()},
		{Name: "Ad Spend (7d)", Kind: KindCurrency, Value: spend, Delta: domain.Missing()},
		{Name: "ROAS (7d)", Kind: KindNumber, Value: roas, Delta: domain.Missing()},
		{Name: "Crash-Free Sessions (%)", Kind: KindPercent, Value: crashFree, Delta: domain.Missing()},
		{Name: "Rage Clicks (7d)", Kind: KindNumber, Value: rageClicks, Delta: domain.Missing()},
		{Name: "Retention D7 (%)", Kind: KindPercent, Value: retention, Delta: domain.Missing()},
	}
	return set
}

// metricView indexes ledger values by source and normalized metric key,
// so "Revenue (7d)" and "revenue_7d" resolve to the same slot.
type metricView map[string]map[string]domain.Value

func normalizeLedger(ledger *domain.Ledger) metricView {
	view := make(metricView)
	for _, rec := range ledger.Records() {
		bySource, ok := view[rec.Source]
		if !ok {
			bySource = make(map[string]domain.Value)
			view[rec.Source] = bySource
		}
		bySource[normalizeMetric(rec.Metric)] = rec.Value
	}
	return view
}

// get tries the known key spellings for one source and returns the
// first hit.
func (m metricView) get(source string, keys ...string) domain.Value {
	bySource, ok := m[source]
	if !ok {
		return domain.Missing()
	}
	for _, key := range keys {
		if v, ok := bySource[key]; ok && !v.IsMissing() {
			return v
		}
	}
	return domain.Missing()
}

// normalizeMetric lowercases a metric name and collapses every
// non-alphanumeric run into one underscore, dropping leading and
// trailing separators. "Bounce Rate (%)" becomes "bounce_rate".
func normalizeMetric(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return b.String()
}

// asRatio brings a rate metric onto the 0..1 scale. Exports disagree on
// scale ("Bounce Rate (%)" carries 42.97, bounce_rate carries 0.4297);
// a value above 1 is taken as a percentage.
func asRatio(v domain.Value) domain.Value {
	if v.IsNumber() && v.Float() > 1 {
		return domain.Number(v.Float() / 100)
	}
	return v
}

func firstPresent(values ...domain.Value) domain.Value {
	for _, v := range values {
		if !v.IsMissing() {
			return v
		}
	}
	return domain.Missing()
}

// divide returns the ratio of two ledger values. A missing operand keeps
// the result missing; a present but zero or non-numeric denominator
// yields the undefined marker, never zero.
func divide(num, den domain.Value) domain.Value {
	if num.IsMissing() || den.IsMissing() {
		return domain.Missing()
	}
	if !num.IsNumber() || !den.IsNumber() || den.Float() == 0 {
		return domain.Text("N/A")
	}
	return domain.Number(num.Float() / den.Float())
}

// percentChange computes (current-prior)/prior*100 as a ratio-free
// display delta.
func percentChange(current, prior domain.Value) domain.Value {
	if !current.IsNumber() || !prior.IsNumber() || prior.Float() == 0 {
		return domain.Missing()
	}
	return domain.Number((current.Float() - prior.Float()) / prior.Float() * 100)
}
