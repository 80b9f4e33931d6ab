package insights

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

// Engine evaluates the rule set against a derived KPI palette. Rules are
// independent predicates; any number may fire in one run.
type Engine struct {
	thresholds config.Thresholds
	rules      []rule
}

type rule func(set *kpi.Set, th config.Thresholds) *domain.Insight

func NewEngine(thresholds config.Thresholds) *Engine {
	return &Engine{
		thresholds: thresholds,
		rules: []rule{
			bounceRateRule,
			conversionRateRule,
			rageClicksRule,
			crashFreeRule,
			retentionRule,
			revenueDiscrepancyRule,
		},
	}
}

// Evaluate runs every rule and returns insights ordered critical first,
// stable by rule declaration order within a severity. When nothing fires
// a single nominal insight keeps the report section populated.
func (e *Engine) Evaluate(ctx context.Context, set *kpi.Set) []domain.Insight {
	logger := zerolog.Ctx(ctx)

	var out []domain.Insight
	for _, r := range e.rules {
		if ins := r(set, e.thresholds); ins != nil {
			out = append(out, *ins)
		}
	}

	if len(out) == 0 {
		out = append(out, domain.Insight{
			Category:       "Overview",
			Severity:       domain.SeveritySuccess,
			Message:        "All monitored KPIs are within their expected ranges or lack sufficient data this period.",
			Recommendation: "No action required. Keep source exports flowing to improve coverage.",
			Priority:       domain.PriorityLow,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return domain.LessSevere(out[i].Severity, out[j].Severity)
	})

	logger.Debug().Int("insights", len(out)).Msg("evaluated insight rules")
	return out
}
