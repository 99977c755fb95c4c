package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/storage/postgres"
)

func runExport(cmd *cobra.Command, _ []string) error {
	deps, err := setupCycle(cmd)
	if err != nil {
		return err
	}
	defer deps.logger.Sync()

	if deps.cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, deps.cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	result, err := deps.builder.Build(ctx, deps.inputs)
	if err != nil {
		return err
	}

	records := seriesRecords(deps.cfg.User, result)
	if err := store.UpsertChartPoints(ctx, records); err != nil {
		return fmt.Errorf("archive series: %w", err)
	}

	stateName := fmt.Sprintf("dashboard:%s", deps.cfg.User)
	if err := store.SaveState(ctx, stateName, uint64(time.Now().Unix())); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	deps.logger.Info("series exported",
		zap.String("user", deps.cfg.User),
		zap.Int("points", len(records)),
	)
	return nil
}
