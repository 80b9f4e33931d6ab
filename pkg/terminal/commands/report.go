package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
	"github.com/tps-tools/metrics-atlas/pkg/services/report"
)

type ReportCmd struct {
	mode        string
	previous    string
	profilePath string
}

func NewReportCmd() *cobra.Command {
	rc := &ReportCmd{}
	cmd := &cobra.Command{
		Use:   "report <ledger-dir> <output-pdf>",
		Short: "Merge source exports and render the weekly report",
		Args:  cobra.ExactArgs(2),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.mode, "mode", "full", "Report variant: full or executive")
	cmd.Flags().StringVar(&rc.previous, "previous", "", "Prior period ledger directory for period-over-period deltas")
	cmd.Flags().StringVar(&rc.profilePath, "profile", "", "Path to a YAML run profile")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	result, err := report.Run(cmd.Context(), report.Options{
		LedgerDir:   args[0],
		OutputPath:  args[1],
		Mode:        domain.Mode(rc.mode),
		PreviousDir: rc.previous,
		ProfilePath: rc.profilePath,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report written to %s (%d ledger records, %d insights)\n",
		result.PDFPath, result.Extract.Ledger.Len(), len(result.Insights))
	fmt.Fprintf(out, "Exports: %s, %s\n", result.CSVPath, result.JSONPath)
	return nil
}
