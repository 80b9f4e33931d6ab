package adapters

import (
	"github.com/tps-tools/metrics-atlas/pkg/models/api"
	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/channels"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
	"github.com/tps-tools/metrics-atlas/pkg/services/report"
)

func MapExtractToApiLedger(extract domain.Extract) api.Ledger {
	out := api.Ledger{Records: []api.MetricRecord{}, Sources: []api.SourceStatus{}}
	for _, rec := range extract.Ledger.Records() {
		m := api.MetricRecord{Source: rec.Source, Metric: rec.Metric}
		if rec.Value.IsNumber() {
			f := rec.Value.Float()
			m.Value = &f
		} else {
			m.Raw = rec.Value.String()
		}
		out.Records = append(out.Records, m)
	}
	for _, s := range extract.Sources {
		out.Sources = append(out.Sources, api.SourceStatus{Name: s.Name, Available: s.Available})
	}
	return out
}

func MapKPISetToApi(set *kpi.Set, currency string) []api.KPI {
	out := make([]api.KPI, 0, len(set.KPIs))
	for _, k := range set.KPIs {
		item := api.KPI{Name: k.Name, Display: report.FormatKPI(k, currency)}
		if k.Value.IsNumber() {
			f := k.Value.Float()
			item.Value = &f
		} else if !k.Value.IsMissing() {
			item.Undefined = true
		}
		if k.Delta.IsNumber() {
			d := k.Delta.Float()
			item.Delta = &d
		}
		out = append(out, item)
	}
	return out
}

func MapRankingToApi(ranking channels.Ranking) api.ChannelRanking {
	out := api.ChannelRanking{Channels: []api.RankedChannel{}, TotalSessions: ranking.TotalSessions}
	for _, c := range ranking.Channels {
		out.Channels = append(out.Channels, api.RankedChannel{
			Channel:     c.Channel,
			Sessions:    c.Sessions,
			Conversions: c.Conversions,
			Revenue:     c.Revenue,
		})
	}
	return out
}

func MapInsightsToApi(insights []domain.Insight) []api.Insight {
	out := make([]api.Insight, 0, len(insights))
	for _, ins := range insights {
		out = append(out, api.Insight{
			Category:       ins.Category,
			Severity:       string(ins.Severity),
			Message:        ins.Message,
			Recommendation: ins.Recommendation,
			Priority:       string(ins.Priority),
		})
	}
	return out
}
