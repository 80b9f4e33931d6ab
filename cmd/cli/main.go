package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tps-tools/metrics-atlas/pkg/terminal/commands"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "metrics-atlas",
		Short: "Merge weekly analytics exports and render the business report",
	}
	rootCmd.AddCommand(commands.NewReportCmd())
	rootCmd.AddCommand(commands.NewMergeCmd())

	ctx := logger.WithContext(context.Background())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
