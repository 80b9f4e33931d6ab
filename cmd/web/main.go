package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tps-tools/metrics-atlas/pkg/server"
	"github.com/tps-tools/metrics-atlas/pkg/services/config"
	"github.com/tps-tools/metrics-atlas/pkg/services/report"
)

var (
	ledgerDir   string
	profilePath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the metrics dashboard server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&ledgerDir, "ledger-dir", "d", ".", "Directory holding the per-source exports")
	rootCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Path to a YAML run profile")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(profilePath)
	if err != nil {
		return fmt.Errorf("failed to load run profile: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	pipeline := report.NewService(*cfg, ledgerDir)
	api := server.NewWebAPI(logger, server.Config{
		Addr:         net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{Pipeline: pipeline},
	})

	logger.Info().Str("ledger_dir", ledgerDir).Msg("serving report pipeline")
	return api.Start()
}
