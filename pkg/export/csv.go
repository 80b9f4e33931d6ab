package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

// WriteLedgerCSV emits the merged ledger as source,metric,value rows, one
// per surviving record, matching exactly what fed the report.
func WriteLedgerCSV(w io.Writer, ledger *domain.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "metric", "value"}); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, rec := range ledger.Records() {
		if err := cw.Write([]string{rec.Source, rec.Metric, rec.Value.String()}); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadLedgerCSV parses a ledger export back into a Ledger. Used by the
// merge subcommand round-trip and by tests comparing report numbers with
// export numbers.
func ReadLedgerCSV(r io.Reader) (*domain.Ledger, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger export: %w", err)
	}

	ledger := domain.NewLedger()
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		ledger.Put(domain.MetricRecord{Source: row[0], Metric: row[1], Value: domain.Coerce(row[2])})
	}
	return ledger, nil
}
