package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tps-tools/metrics-atlas/pkg/export"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/ledger"
)

type MergeCmd struct {
	profilePath string
}

func NewMergeCmd() *cobra.Command {
	mc := &MergeCmd{}
	cmd := &cobra.Command{
		Use:   "merge <ledger-dir> <output-csv>",
		Short: "Merge per-source exports into one ledger CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.profilePath, "profile", "", "Path to a YAML run profile")

	return cmd
}

func (mc *MergeCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(mc.profilePath)
	if err != nil {
		return err
	}

	extract := ledger.NewMerger(cfg.Sources).Merge(cmd.Context(), args[0])

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("failed to create ledger export: %w", err)
	}
	defer f.Close()

	if err := export.WriteLedgerCSV(f, extract.Ledger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d records from %d sources into %s\n",
		extract.Ledger.Len(), len(extract.Sources), args[1])
	return nil
}
