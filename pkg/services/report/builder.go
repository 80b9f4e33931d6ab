package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/channels"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
)

// State tracks how far a run has progressed. Transitions are one-way
// within a single run; regeneration always starts from a fresh builder.
type State int

const (
	StateEmpty State = iota
	StateLedgerLoaded
	StateKPIsDerived
	StateRanked
	StateInsightsEvaluated
	StateComposed
	StateWritten
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateLedgerLoaded:
		return "LEDGER_LOADED"
	case StateKPIsDerived:
		return "KPIS_DERIVED"
	case StateRanked:
		return "RANKED"
	case StateInsightsEvaluated:
		return "INSIGHTS_EVALUATED"
	case StateComposed:
		return "COMPOSED"
	case StateWritten:
		return "WRITTEN"
	default:
		return "UNKNOWN"
	}
}

// Builder assembles the report section by section. Each stage feeds it
// exactly once, in pipeline order; output files are written only after
// composition succeeded, so an aborted run leaves no partial artifact.
type Builder struct {
	cfg   config.Config
	state State

	extract  domain.Extract
	kpis     *kpi.Set
	ranking  channels.Ranking
	insights []domain.Insight
}

func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg, state: StateEmpty}
}

func (b *Builder) State() State {
	return b.state
}

func (b *Builder) advance(from, to State) error {
	if b.state != from {
		return fmt.Errorf("cannot move to %s from %s, expected %s", to, b.state, from)
	}
	b.state = to
	return nil
}

func (b *Builder) LoadLedger(extract domain.Extract) error {
	if err := b.advance(StateEmpty, StateLedgerLoaded); err != nil {
		return err
	}
	b.extract = extract
	return nil
}

func (b *Builder) DeriveKPIs(set *kpi.Set) error {
	if err := b.advance(StateLedgerLoaded, StateKPIsDerived); err != nil {
		return err
	}
	b.kpis = set
	return nil
}

func (b *Builder) RankChannels(ranking channels.Ranking) error {
	if err := b.advance(StateKPIsDerived, StateRanked); err != nil {
		return err
	}
	b.ranking = ranking
	return nil
}

func (b *Builder) EvaluateInsights(insights []domain.Insight) error {
	if err := b.advance(StateRanked, StateInsightsEvaluated); err != nil {
		return err
	}
	b.insights = insights
	return nil
}

// Compose assembles the final section list. now feeds report metadata
// only; every number in the body comes from the ledger.
func (b *Builder) Compose(now time.Time, mode domain.Mode) (*domain.Report, error) {
	if err := b.advance(StateInsightsEvaluated, StateComposed); err != nil {
		return nil, err
	}

	report := &domain.Report{
		Title:       b.cfg.Title,
		Mode:        mode,
		GeneratedAt: now,
		Sources:     b.extract.Sources,
		Period: domain.TimePeriod{
			Start:    now.AddDate(0, 0, -b.cfg.PeriodDays),
			End:      now,
			Duration: b.cfg.PeriodDays,
		},
	}

	if mode == domain.ModeExecutive {
		report.Sections = []domain.Section{b.executiveSection()}
		return report, nil
	}

	report.Sections = []domain.Section{
		b.overviewSection(),
		b.revenueSection(),
		b.channelsSection(),
		b.healthSection(),
		b.insightsSection(),
		b.appendixSection(),
	}
	return report, nil
}

// MarkWritten records that the artifacts are on disk.
func (b *Builder) MarkWritten() error {
	return b.advance(StateComposed, StateWritten)
}

func (b *Builder) overviewSection() domain.Section {
	table := &domain.Table{Columns: []string{"KPI", "Value", "vs Previous"}}
	for _, k := range b.kpis.KPIs {
		table.Rows = append(table.Rows, []string{
			k.Name,
			FormatKPI(k, b.cfg.Currency),
			FormatDelta(k.Delta),
		})
	}
	return domain.Section{
		Title: "KPI Snapshot",
		Blocks: []domain.Block{
			{Kind: domain.BlockText, Text: b.completenessLine()},
			{Kind: domain.BlockTable, Table: table},
		},
	}
}

func (b *Builder) completenessLine() string {
	available := 0
	var missing []string
	for _, s := range b.extract.Sources {
		if s.Available {
			available++
		} else {
			missing = append(missing, s.Name)
		}
	}
	line := fmt.Sprintf("Data completeness: %d of %d sources reported.", available, len(b.extract.Sources))
	if len(missing) > 0 {
		line += " Missing: " + strings.Join(missing, ", ") + "."
	}
	return line
}

func (b *Builder) revenueSection() domain.Section {
	table := &domain.Table{Columns: []string{"Metric", "Value"}}
	for _, name := range []string{"Revenue Shopify (7d)", "Revenue GA4 (7d)", "AOV (7d)", "Ad Spend (7d)", "ROAS (7d)"} {
		table.Rows = append(table.Rows, []string{name, b.kpiCell(name)})
	}

	section := domain.Section{
		Title:  "Business Revenue",
		Blocks: []domain.Block{{Kind: domain.BlockTable, Table: table}},
	}
	if chart := b.trendChart("revenue", "Daily Revenue"); chart != nil {
		section.Blocks = append(section.Blocks, domain.Block{Kind: domain.BlockChart, Chart: chart})
	}
	return section
}

func (b *Builder) channelsSection() domain.Section {
	table := &domain.Table{Columns: []string{"Channel", "Sessions", "Conversions", "Revenue"}}
	for _, c := range b.ranking.Channels {
		table.Rows = append(table.Rows, []string{
			c.Channel,
			FormatNumber(domain.Number(c.Sessions)),
			FormatNumber(domain.Number(c.Conversions)),
			FormatNumber(domain.Number(c.Revenue)) + " " + b.cfg.Currency,
		})
	}
	if len(table.Rows) == 0 {
		table.Rows = append(table.Rows, []string{Placeholder, Placeholder, Placeholder, Placeholder})
	}

	section := domain.Section{
		Title:  "Acquisition Channels",
		Blocks: []domain.Block{{Kind: domain.BlockTable, Table: table}},
	}
	if len(b.ranking.Channels) > 0 {
		chart := &domain.Chart{Title: "Sessions by Channel", Kind: domain.ChartBars}
		for _, c := range b.ranking.Channels {
			chart.Bars = append(chart.Bars, domain.ChartBar{Label: c.Channel, Value: c.Sessions})
		}
		section.Blocks = append(section.Blocks, domain.Block{Kind: domain.BlockChart, Chart: chart})
	}
	return section
}

func (b *Builder) healthSection() domain.Section {
	table := &domain.Table{Columns: []string{"Metric", "Value"}}
	for _, name := range []string{"Bounce Rate (%)", "Conversion Rate (%)", "Crash-Free Sessions (%)", "Rage Clicks (7d)", "Retention D7 (%)"} {
		table.Rows = append(table.Rows, []string{name, b.kpiCell(name)})
	}

	section := domain.Section{
		Title:  "Operational Health",
		Blocks: []domain.Block{{Kind: domain.BlockTable, Table: table}},
	}
	if chart := b.trendChart("sessions", "Daily Sessions"); chart != nil {
		section.Blocks = append(section.Blocks, domain.Block{Kind: domain.BlockChart, Chart: chart})
	}
	return section
}

func (b *Builder) insightsSection() domain.Section {
	section := domain.Section{Title: "Insights & Recommendations"}
	for _, ins := range b.insights {
		text := fmt.Sprintf("[%s/%s] %s %s Recommendation: %s",
			strings.ToUpper(string(ins.Severity)), ins.Priority, ins.Category, ins.Message, ins.Recommendation)
		section.Blocks = append(section.Blocks, domain.Block{Kind: domain.BlockText, Text: text})
	}
	return section
}

func (b *Builder) appendixSection() domain.Section {
	table := &domain.Table{Columns: []string{"Source", "Metric", "Value"}}
	for _, rec := range b.extract.Ledger.Records() {
		table.Rows = append(table.Rows, []string{rec.Source, rec.Metric, FormatNumber(rec.Value)})
	}
	if len(table.Rows) == 0 {
		table.Rows = append(table.Rows, []string{Placeholder, Placeholder, Placeholder})
	}
	return domain.Section{
		Title:  "Raw Ledger",
		Blocks: []domain.Block{{Kind: domain.BlockTable, Table: table}},
	}
}

// executiveSection is the one-page variant: the KPI grid, a single
// revenue trend, and the highest-severity insight as a short narrative.
func (b *Builder) executiveSection() domain.Section {
	table := &domain.Table{Columns: []string{"KPI", "Value"}}
	for _, k := range b.kpis.KPIs {
		table.Rows = append(table.Rows, []string{k.Name, FormatKPI(k, b.cfg.Currency)})
	}

	section := domain.Section{
		Title: "Executive Summary",
		Blocks: []domain.Block{
			{Kind: domain.BlockText, Text: b.completenessLine()},
			{Kind: domain.BlockTable, Table: table},
		},
	}
	if chart := b.trendChart("revenue", "Daily Revenue"); chart != nil {
		section.Blocks = append(section.Blocks, domain.Block{Kind: domain.BlockChart, Chart: chart})
	}
	if len(b.insights) > 0 {
		top := b.insights[0]
		section.Blocks = append(section.Blocks, domain.Block{
			Kind: domain.BlockText,
			Text: fmt.Sprintf("%s: %s %s", top.Category, top.Message, top.Recommendation),
		})
	}
	return section
}

func (b *Builder) kpiCell(name string) string {
	for _, k := range b.kpis.KPIs {
		if k.Name == name {
			return FormatKPI(k, b.cfg.Currency)
		}
	}
	return Placeholder
}

// trendChart folds one named series across sources; nil when there is no
// backing data so an empty chart is omitted, not rendered blank.
func (b *Builder) trendChart(series, title string) *domain.Chart {
	folded := kpi.Fold(b.extract.Series, series)
	if folded.Empty() {
		return nil
	}

	chart := &domain.Chart{Title: title, Kind: domain.ChartTrend}
	for _, source := range folded.Sources {
		line := domain.ChartLine{Name: source}
		for i, d := range folded.Dates {
			v := folded.Values[source][i]
			if !v.IsNumber() {
				continue
			}
			line.Dates = append(line.Dates, d)
			line.Values = append(line.Values, v.Float())
		}
		if len(line.Dates) > 0 {
			chart.Lines = append(chart.Lines, line)
		}
	}
	if len(chart.Lines) == 0 {
		return nil
	}
	return chart
}
