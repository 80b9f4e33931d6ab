package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tps-tools/metrics-atlas/pkg/export"
	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
}

func TestRunGracefulEmptiness(t *testing.T) {
	outDir := t.TempDir()
	opts := Options{
		LedgerDir:  t.TempDir(),
		OutputPath: filepath.Join(outDir, "report.pdf"),
		Now:        fixedNow,
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Report.Sections, 6)
	assert.FileExists(t, result.PDFPath)
	assert.FileExists(t, result.CSVPath)
	assert.FileExists(t, result.JSONPath)

	data, err := os.ReadFile(result.CSVPath)
	require.NoError(t, err)
	assert.Equal(t, "source,metric,value\n", string(data))
}

func TestRunPartialSources(t *testing.T) {
	// summary file exactly as the storefront connector writes it
	ledgerDir := t.TempDir()
	content := "metric,value\nRevenue (7d),1000.00\nConversions (7d),20\nAOV (7d),50.00\n"
	require.NoError(t, os.WriteFile(filepath.Join(ledgerDir, "shopify_metrics.csv"), []byte(content), 0o644))

	result, err := Run(context.Background(), Options{
		LedgerDir:  ledgerDir,
		OutputPath: filepath.Join(t.TempDir(), "report.pdf"),
		Now:        fixedNow,
	})
	require.NoError(t, err)

	snapshot := result.Report.Sections[0].Blocks[1].Table
	cells := make(map[string]string)
	for _, row := range snapshot.Rows {
		cells[row[0]] = row[1]
	}
	assert.Equal(t, "1 000 EUR", cells["Revenue Shopify (7d)"])
	assert.Equal(t, "50.00 EUR", cells["AOV (7d)"])
	assert.Equal(t, Placeholder, cells["Sessions (7d)"])
	assert.Equal(t, Placeholder, cells["Bounce Rate (%)"])
}

func TestRunIdempotentMerge(t *testing.T) {
	ledgerDir := t.TempDir()
	content := "metric,value\nrevenue_7d,1250.5\norders_7d,20\n"
	require.NoError(t, os.WriteFile(filepath.Join(ledgerDir, "shopify_metrics.csv"), []byte(content), 0o644))

	opts := Options{LedgerDir: ledgerDir, Now: fixedNow}
	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Extract.Ledger.Records(), second.Extract.Ledger.Records())
	assert.Equal(t, first.Report.Sections, second.Report.Sections)
}

func TestRunRoundTripLedgerEquality(t *testing.T) {
	ledgerDir := t.TempDir()
	content := "metric,value\nrevenue_7d,1250.5\norders_7d,20\n"
	require.NoError(t, os.WriteFile(filepath.Join(ledgerDir, "shopify_metrics.csv"), []byte(content), 0o644))

	result, err := Run(context.Background(), Options{
		LedgerDir:  ledgerDir,
		OutputPath: filepath.Join(t.TempDir(), "report.pdf"),
		Now:        fixedNow,
	})
	require.NoError(t, err)

	f, err := os.Open(result.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	exported, err := export.ReadLedgerCSV(f)
	require.NoError(t, err)

	revenue := exported.Get("shopify", "revenue_7d")
	require.True(t, revenue.IsNumber())

	// the snapshot cell, stripped of display formatting, equals the export
	snapshot := result.Report.Sections[0].Blocks[1].Table
	var cell string
	for _, row := range snapshot.Rows {
		if row[0] == "Revenue Shopify (7d)" {
			cell = row[1]
		}
	}
	cell = strings.TrimSuffix(cell, " EUR")
	cell = strings.ReplaceAll(cell, " ", "")
	assert.Equal(t, "1250", cell)
	assert.InDelta(t, 1250.5, revenue.Float(), 0.001)
}

func TestRunInvalidMode(t *testing.T) {
	_, err := Run(context.Background(), Options{LedgerDir: t.TempDir(), Mode: domain.Mode("weekly")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestRunExecutiveMode(t *testing.T) {
	result, err := Run(context.Background(), Options{
		LedgerDir: t.TempDir(),
		Mode:      domain.ModeExecutive,
		Now:       fixedNow,
	})
	require.NoError(t, err)
	require.Len(t, result.Report.Sections, 1)
}

func TestRunMissingProfileFails(t *testing.T) {
	_, err := Run(context.Background(), Options{
		LedgerDir:   t.TempDir(),
		ProfilePath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	assert.Error(t, err)
}
