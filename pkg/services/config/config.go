package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the optional run profile. Every field has a default so the
// pipeline runs with no profile at all.
type Config struct {
	Title       string       `mapstructure:"title"`
	Currency    string       `mapstructure:"currency"`
	TopChannels int          `mapstructure:"top_channels"`
	PeriodDays  int          `mapstructure:"period_days"`
	Sources     []SourceSpec `mapstructure:"sources"`
	Thresholds  Thresholds   `mapstructure:"thresholds"`
}

// SourceSpec declares one expected source export. Order in the profile is
// source-priority order: on duplicate (source, metric) pairs the
// later-declared source wins.
type SourceSpec struct {
	Name string `mapstructure:"name"`
	File string `mapstructure:"file"`
}

// Thresholds are the insight rule trigger levels. They are configuration,
// not hard-coded magic, so each rule is independently testable.
type Thresholds struct {
	BounceRateWarn     float64 `mapstructure:"bounce_rate_warn"`
	ConversionRateMin  float64 `mapstructure:"conversion_rate_min"`
	RageClicksWarn     float64 `mapstructure:"rage_clicks_warn"`
	CrashFreeMin       float64 `mapstructure:"crash_free_min"`
	RetentionGood      float64 `mapstructure:"retention_good"`
	RevenueGapWarn     float64 `mapstructure:"revenue_gap_warn"`
}

func Default() Config {
	return Config{
		Title:       "Weekly Analytics Report",
		Currency:    "EUR",
		TopChannels: 8,
		PeriodDays:  7,
		Sources: []SourceSpec{
			{Name: "shopify", File: "shopify_metrics.csv"},
			{Name: "ga4", File: "ga4_metrics.csv"},
			{Name: "meta", File: "meta_metrics.csv"},
			{Name: "gsc", File: "gsc_metrics.csv"},
			{Name: "ahrefs", File: "ahrefs_metrics.csv"},
			{Name: "social", File: "social_metrics.csv"},
			{Name: "sentry", File: "sentry_metrics.csv"},
			{Name: "amplitude", File: "amplitude_metrics.csv"},
			{Name: "hotjar", File: "hotjar_metrics.csv"},
		},
		Thresholds: Thresholds{
			BounceRateWarn:    0.50,
			ConversionRateMin: 0.03,
			RageClicksWarn:    15,
			CrashFreeMin:      0.98,
			RetentionGood:     0.25,
			RevenueGapWarn:    0.20,
		},
	}
}

// LoadConfig reads a YAML run profile and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(profilePath string) (*Config, error) {
	cfg := Default()
	if profilePath == "" {
		return &cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	if cfg.TopChannels <= 0 {
		cfg.TopChannels = Default().TopChannels
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = Default().Sources
	}
	return &cfg, nil
}
