package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

// LedgerRecord is the structured-record form of one ledger row. Numeric
// values serialize as JSON numbers, unparseable ones as their raw text.
type LedgerRecord struct {
	Source string   `json:"source"`
	Metric string   `json:"metric"`
	Value  *float64 `json:"value"`
	Raw    string   `json:"raw,omitempty"`
}

// WriteLedgerJSON emits the merged ledger in structured-record form with
// the same contents as the tabular export.
func WriteLedgerJSON(w io.Writer, ledger *domain.Ledger) error {
	records := make([]LedgerRecord, 0, ledger.Len())
	for _, rec := range ledger.Records() {
		out := LedgerRecord{Source: rec.Source, Metric: rec.Metric}
		if rec.Value.IsNumber() {
			f := rec.Value.Float()
			out.Value = &f
		} else {
			out.Raw = rec.Value.String()
		}
		records = append(records, out)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return nil
}
