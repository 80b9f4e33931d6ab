package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/export"
	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/render/pdf"
	"github.com/tps-tools/metrics-atlas/pkg/services/channels"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/insights"
	"github.com/tps-tools/metrics-atlas/pkg/services/kpi"
	"github.com/tps-tools/metrics-atlas/pkg/services/ledger"
)

// Options configures one reporting run.
type Options struct {
	LedgerDir   string
	OutputPath  string
	Mode        domain.Mode
	PreviousDir string
	ProfilePath string
	// Now feeds report metadata only; injectable for tests.
	Now func() time.Time
}

// Result is everything one run produced.
type Result struct {
	Report   *domain.Report
	Extract  domain.Extract
	KPIs     *kpi.Set
	Ranking  channels.Ranking
	Insights []domain.Insight
	PDFPath  string
	CSVPath  string
	JSONPath string
}

// Run executes the full pipeline: merge, derive, rank, evaluate, compose,
// write. Missing source data degrades to placeholders; only invalid
// options or unwritable outputs fail the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if opts.Mode == "" {
		opts.Mode = domain.ModeFull
	}
	if opts.Mode != domain.ModeFull && opts.Mode != domain.ModeExecutive {
		return nil, fmt.Errorf("invalid mode %q, expected full or executive", opts.Mode)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cfg, err := config.LoadConfig(opts.ProfilePath)
	if err != nil {
		return nil, err
	}

	result, builder, err := Compose(ctx, *cfg, opts)
	if err != nil {
		return nil, err
	}

	if opts.OutputPath != "" {
		doc, err := pdf.Render(ctx, result.Report)
		if err != nil {
			return nil, err
		}
		if err := writeArtifacts(result, opts.OutputPath, doc); err != nil {
			return nil, err
		}
		if err := builder.MarkWritten(); err != nil {
			return nil, err
		}
		logger.Info().
			Str("pdf", result.PDFPath).
			Int("records", result.Extract.Ledger.Len()).
			Msg("report written")
	}
	return result, nil
}

// Compose runs the in-memory pipeline stages without touching disk
// outputs. The dashboard uses it directly per request.
func Compose(ctx context.Context, cfg config.Config, opts Options) (*Result, *Builder, error) {
	if opts.Mode == "" {
		opts.Mode = domain.ModeFull
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	merger := ledger.NewMerger(cfg.Sources)
	extract := merger.Merge(ctx, opts.LedgerDir)

	var previous *domain.Ledger
	if opts.PreviousDir != "" {
		prior := merger.Merge(ctx, opts.PreviousDir)
		previous = prior.Ledger
	}

	set := kpi.NewDeriver().Derive(ctx, extract.Ledger, previous)
	ranking := channels.NewRanker(cfg.TopChannels).Rank(ctx, extract.Channels)
	evaluated := insights.NewEngine(cfg.Thresholds).Evaluate(ctx, set)

	builder := NewBuilder(cfg)
	if err := builder.LoadLedger(extract); err != nil {
		return nil, nil, err
	}
	if err := builder.DeriveKPIs(set); err != nil {
		return nil, nil, err
	}
	if err := builder.RankChannels(ranking); err != nil {
		return nil, nil, err
	}
	if err := builder.EvaluateInsights(evaluated); err != nil {
		return nil, nil, err
	}
	composed, err := builder.Compose(opts.Now(), opts.Mode)
	if err != nil {
		return nil, nil, err
	}

	return &Result{
		Report:   composed,
		Extract:  extract,
		KPIs:     set,
		Ranking:  ranking,
		Insights: evaluated,
	}, builder, nil
}

// Service recomputes the pipeline on demand from a fixed ledger
// directory. The dashboard uses one instance per process.
type Service struct {
	cfg       config.Config
	ledgerDir string
}

func NewService(cfg config.Config, ledgerDir string) *Service {
	return &Service{cfg: cfg, ledgerDir: ledgerDir}
}

// Snapshot runs the in-memory stages against the current directory
// contents.
func (s *Service) Snapshot(ctx context.Context) (*Result, error) {
	result, _, err := Compose(ctx, s.cfg, Options{LedgerDir: s.ledgerDir})
	return result, err
}

// Currency exposes the configured display currency for API mapping.
func (s *Service) Currency() string {
	return s.cfg.Currency
}

// writeArtifacts puts the document and its sibling exports on disk in one
// pass, only after composition fully succeeded.
func writeArtifacts(result *Result, outputPath string, doc []byte) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	result.PDFPath = outputPath

	csvPath := filepath.Join(dir, "ledger.csv")
	cf, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create ledger export: %w", err)
	}
	defer cf.Close()
	if err := export.WriteLedgerCSV(cf, result.Extract.Ledger); err != nil {
		return err
	}
	result.CSVPath = csvPath

	jsonPath := filepath.Join(dir, "ledger.json")
	jf, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to create ledger export: %w", err)
	}
	defer jf.Close()
	if err := export.WriteLedgerJSON(jf, result.Extract.Ledger); err != nil {
		return err
	}
	result.JSONPath = jsonPath
	return nil
}
