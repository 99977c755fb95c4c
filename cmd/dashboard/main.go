package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Lending protocol dashboard data client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single fetch and compute cycle, printing the series",
		RunE:  runOnce,
	}
	addCycleFlags(onceCmd)
	root.AddCommand(onceCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the indexer and append computed series to a JSONL file",
		RunE:  runLoop,
	}
	addCycleFlags(runCmd)
	runCmd.Flags().Duration("interval", 60*time.Second, "polling interval")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts per cycle")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("out", "./data/series.jsonl", "output JSONL path")
	root.AddCommand(runCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Run one cycle and archive the series to Postgres",
		RunE:  runExport,
	}
	addCycleFlags(exportCmd)
	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	root.AddCommand(exportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCycleFlags(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "indexer GraphQL endpoint URL")
	cmd.Flags().String("user", "", "user address")
	cmd.Flags().String("deposits", "", "deposit positions JSON path")
	cmd.Flags().String("loans", "", "loan positions JSON path")
	cmd.Flags().String("collateral", "", "pool collateral info JSON path")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
