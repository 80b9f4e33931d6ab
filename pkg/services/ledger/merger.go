package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
)

// Merger reads whatever per-source export files exist under a base
// directory and folds them into one unified extract. A source that is
// absent, unreadable, or malformed contributes zero records; absence of a
// source never aborts a run.
type Merger struct {
	sources []config.SourceSpec
}

func NewMerger(sources []config.SourceSpec) *Merger {
	return &Merger{sources: sources}
}

// Merge builds the run extract in source-priority order. Later sources win
// ties on (source, metric), matching overwrite-by-reimport semantics.
func (m *Merger) Merge(ctx context.Context, baseDir string) domain.Extract {
	logger := zerolog.Ctx(ctx)

	extract := domain.Extract{Ledger: domain.NewLedger()}
	seriesIndex := make(map[seriesKey]float64)
	var seriesOrder []seriesKey

	for _, src := range m.sources {
		status := domain.SourceStatus{Name: src.Name}

		summary := loadSummary(logger, filepath.Join(baseDir, src.File), src.Name)
		for _, rec := range summary {
			extract.Ledger.Put(rec)
		}

		points := loadTimeSeries(logger, timeSeriesPath(baseDir, src), src.Name)
		for _, p := range points {
			key := seriesKey{date: p.Date, source: p.Source, series: p.Series}
			if _, seen := seriesIndex[key]; !seen {
				seriesOrder = append(seriesOrder, key)
			}
			// most recently loaded point wins
			seriesIndex[key] = p.Value
		}

		channels := loadChannels(logger, channelsPath(baseDir, src))
		extract.Channels = append(extract.Channels, channels...)

		status.Available = len(summary) > 0 || len(points) > 0 || len(channels) > 0
		extract.Sources = append(extract.Sources, status)
	}

	sort.SliceStable(seriesOrder, func(i, j int) bool {
		a, b := seriesOrder[i], seriesOrder[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.source != b.source {
			return a.source < b.source
		}
		return a.series < b.series
	})
	for _, key := range seriesOrder {
		extract.Series = append(extract.Series, domain.TimeSeriesPoint{
			Date:   key.date,
			Source: key.source,
			Series: key.series,
			Value:  seriesIndex[key],
		})
	}

	return extract
}

type seriesKey struct {
	date   time.Time
	source string
	series string
}

func timeSeriesPath(baseDir string, src config.SourceSpec) string {
	return filepath.Join(baseDir, src.Name+"_timeseries.csv")
}

func channelsPath(baseDir string, src config.SourceSpec) string {
	return filepath.Join(baseDir, src.Name+"_sources.csv")
}

// loadSummary reads one metric/value export. Header matching is
// case-insensitive; rows missing either column are dropped with a debug
// note. Values that fail numeric coercion are kept as display-only text.
func loadSummary(logger *zerolog.Logger, path, source string) []domain.MetricRecord {
	rows, header, ok := readCSV(logger, path)
	if !ok {
		return nil
	}

	metricCol := columnIndex(header, "metric")
	valueCol := columnIndex(header, "value")
	if metricCol < 0 || valueCol < 0 {
		logger.Debug().Str("path", path).Msg("summary export missing metric/value columns")
		return nil
	}

	var records []domain.MetricRecord
	for _, row := range rows {
		if metricCol >= len(row) || valueCol >= len(row) || strings.TrimSpace(row[metricCol]) == "" {
			logger.Debug().Str("path", path).Msg("dropping summary row without metric/value")
			continue
		}
		value := domain.Coerce(strings.TrimSpace(row[valueCol]))
		if !value.IsNumber() {
			logger.Debug().
				Str("source", source).
				Str("metric", row[metricCol]).
				Msg("metric value not numeric, keeping as display text")
		}
		records = append(records, domain.MetricRecord{
			Source: source,
			Metric: strings.TrimSpace(row[metricCol]),
			Value:  value,
		})
	}
	return records
}

// loadTimeSeries reads a date-plus-series-columns export; every column
// other than date becomes a named series.
func loadTimeSeries(logger *zerolog.Logger, path, source string) []domain.TimeSeriesPoint {
	rows, header, ok := readCSV(logger, path)
	if !ok {
		return nil
	}

	dateCol := columnIndex(header, "date")
	if dateCol < 0 {
		logger.Debug().Str("path", path).Msg("timeseries export missing date column")
		return nil
	}

	var points []domain.TimeSeriesPoint
	for _, row := range rows {
		if dateCol >= len(row) {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[dateCol]))
		if err != nil {
			logger.Debug().Str("path", path).Str("date", row[dateCol]).Msg("dropping timeseries row with bad date")
			continue
		}
		for col, name := range header {
			if col == dateCol || col >= len(row) {
				continue
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				continue
			}
			points = append(points, domain.TimeSeriesPoint{
				Date:   date,
				Source: source,
				Series: strings.ToLower(strings.TrimSpace(name)),
				Value:  value,
			})
		}
	}
	return points
}

// loadChannels reads a dimensional breakdown export
// (channel[,medium,source],sessions,conversions,revenue).
func loadChannels(logger *zerolog.Logger, path string) []domain.ChannelRow {
	rows, header, ok := readCSV(logger, path)
	if !ok {
		return nil
	}

	channelCol := columnIndex(header, "channel")
	if channelCol < 0 {
		logger.Debug().Str("path", path).Msg("breakdown export missing channel column")
		return nil
	}
	mediumCol := columnIndex(header, "medium")
	detailCol := columnIndex(header, "source")
	sessionsCol := columnIndex(header, "sessions")
	conversionsCol := columnIndex(header, "conversions")
	revenueCol := columnIndex(header, "revenue")

	var out []domain.ChannelRow
	for _, row := range rows {
		cr := domain.ChannelRow{
			Channel:      cell(row, channelCol),
			Medium:       cell(row, mediumCol),
			SourceDetail: cell(row, detailCol),
			Sessions:     numericCell(row, sessionsCol),
			Conversions:  numericCell(row, conversionsCol),
			Revenue:      numericCell(row, revenueCol),
		}
		out = append(out, cr)
	}
	return out
}

// readCSV opens and parses one export. Any failure is recoverable: the
// file simply contributes nothing.
func readCSV(logger *zerolog.Logger, path string) (rows [][]string, header []string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Debug().Str("path", path).Msg("source export not available")
		return nil, nil, false
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err != nil {
		logger.Debug().Str("path", path).Err(err).Msg("source export has no header")
		return nil, nil, false
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Debug().Str("path", path).Err(err).Msg("stopping at malformed csv row")
			break
		}
		rows = append(rows, row)
	}
	return rows, header, true
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func numericCell(row []string, col int) float64 {
	f, err := strconv.ParseFloat(cell(row, col), 64)
	if err != nil {
		return 0
	}
	return f
}
