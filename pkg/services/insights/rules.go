package insights

import (
	"fmt"
	"math"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

func bounceRateRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	bounce := set.Raw(kpi.RawBounceRate)
	if !bounce.IsNumber() || bounce.Float() <= th.BounceRateWarn {
		return nil
	}
	return &domain.Insight{
		Category:       "Traffic Quality",
		Severity:       domain.SeverityWarning,
		Message:        fmt.Sprintf("Bounce rate is %.1f%%, above the %.0f%% threshold.", bounce.Float()*100, th.BounceRateWarn*100),
		Recommendation: "Review landing pages of the top entry channels for load time, message match and mobile rendering.",
		Priority:       domain.PriorityHigh,
	}
}

func conversionRateRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	rate := set.Raw(kpi.RawConversionRate)
	if !rate.IsNumber() || rate.Float() >= th.ConversionRateMin {
		return nil
	}
	return &domain.Insight{
		Category:       "Conversion Optimization",
		Severity:       domain.SeverityOpportunity,
		Message:        fmt.Sprintf("Conversion rate is %.2f%%, below the %.1f%% target.", rate.Float()*100, th.ConversionRateMin*100),
		Recommendation: "Audit the checkout funnel for drop-off steps and test simplified forms on the highest-traffic pages.",
		Priority:       domain.PriorityHigh,
	}
}

func rageClicksRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	clicks := set.Raw(kpi.RawRageClicks)
	if !clicks.IsNumber() || clicks.Float() <= th.RageClicksWarn {
		return nil
	}
	return &domain.Insight{
		Category:       "User Experience",
		Severity:       domain.SeverityWarning,
		Message:        fmt.Sprintf("%.0f rage clicks recorded this period, above the threshold of %.0f.", clicks.Float(), th.RageClicksWarn),
		Recommendation: "Replay the affected sessions and check for dead links or unresponsive controls on the flagged pages.",
		Priority:       domain.PriorityMedium,
	}
}

func crashFreeRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	crashFree := set.Raw(kpi.RawCrashFreeRate)
	if !crashFree.IsNumber() || crashFree.Float() >= th.CrashFreeMin {
		return nil
	}
	return &domain.Insight{
		Category:       "Technical Health",
		Severity:       domain.SeverityCritical,
		Message:        fmt.Sprintf("Crash-free session rate is %.2f%%, below the %.0f%% floor.", crashFree.Float()*100, th.CrashFreeMin*100),
		Recommendation: "Triage the top crash groups in the error tracker and ship a hotfix before the next release train.",
		Priority:       domain.PriorityCritical,
	}
}

func retentionRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	retention := set.Raw(kpi.RawRetentionD7)
	if !retention.IsNumber() || retention.Float() <= th.RetentionGood {
		return nil
	}
	return &domain.Insight{
		Category:       "User Engagement",
		Severity:       domain.SeveritySuccess,
		Message:        fmt.Sprintf("Day-7 retention is %.1f%%, above the %.0f%% benchmark.", retention.Float()*100, th.RetentionGood*100),
		Recommendation: "Document what changed for this cohort and consider scaling the acquisition channels that fed it.",
		Priority:       domain.PriorityLow,
	}
}

// revenueDiscrepancyRule compares storefront revenue against analytics
// revenue. Both stay in the report as independent rows; a large gap is
// surfaced as a data quality signal instead of being reconciled away.
func revenueDiscrepancyRule(set *kpi.Set, th config.Thresholds) *domain.Insight {
	shopify := set.Raw(kpi.RawRevenueShopify)
	ga4 := set.Raw(kpi.RawRevenueGA4)
	if !shopify.IsNumber() || !ga4.IsNumber() || shopify.Float() == 0 {
		return nil
	}
	gap := math.Abs(shopify.Float()-ga4.Float()) / shopify.Float()
	if gap <= th.RevenueGapWarn {
		return nil
	}
	return &domain.Insight{
		Category:       "Data Quality",
		Severity:       domain.SeverityWarning,
		Message:        fmt.Sprintf("Storefront and analytics revenue differ by %.0f%% this period.", gap*100),
		Recommendation: "Verify the purchase event tagging and currency settings in the analytics property.",
		Priority:       domain.PriorityMedium,
	}
}
