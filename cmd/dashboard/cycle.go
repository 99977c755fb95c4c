package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/config"
	"positionScope/internal/series"
	"positionScope/internal/storage"
	"positionScope/internal/subgraph"
)

// cycleDeps bundles everything a compute cycle needs.
type cycleDeps struct {
	cfg     config.Config
	logger  *zap.Logger
	builder *series.Builder
	inputs  series.Inputs
}

func setupCycle(cmd *cobra.Command) (cycleDeps, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return cycleDeps{}, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return cycleDeps{}, err
	}

	if cfg.Endpoint == "" {
		return cycleDeps{}, fmt.Errorf("endpoint is required")
	}
	if !common.IsHexAddress(cfg.User) {
		return cycleDeps{}, fmt.Errorf("valid user address is required")
	}

	deposits, err := loadPositions(cfg.DepositsFile)
	if err != nil {
		return cycleDeps{}, err
	}
	loans, err := loadPositions(cfg.LoansFile)
	if err != nil {
		return cycleDeps{}, err
	}
	collateralInfos, err := loadCollateralInfos(cfg.CollateralFile)
	if err != nil {
		return cycleDeps{}, err
	}

	client, err := subgraph.NewClient(cfg.Endpoint, logger)
	if err != nil {
		return cycleDeps{}, err
	}

	return cycleDeps{
		cfg:     cfg,
		logger:  logger,
		builder: series.NewBuilder(client, logger),
		inputs: series.Inputs{
			User:            cfg.User,
			Deposits:        deposits,
			Loans:           loans,
			CollateralInfos: collateralInfos,
		},
	}, nil
}

func runOnce(cmd *cobra.Command, _ []string) error {
	deps, err := setupCycle(cmd)
	if err != nil {
		return err
	}
	defer deps.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := deps.builder.Build(ctx, deps.inputs)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}

func runLoop(cmd *cobra.Command, _ []string) error {
	deps, err := setupCycle(cmd)
	if err != nil {
		return err
	}
	defer deps.logger.Sync()

	if deps.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := storage.NewJsonlStorage(deps.cfg.Out)

	deps.logger.Info("dashboard start",
		zap.String("endpoint", deps.cfg.Endpoint),
		zap.String("user", deps.cfg.User),
		zap.Duration("interval", deps.cfg.Interval),
		zap.String("out", deps.cfg.Out),
	)

	ticker := time.NewTicker(deps.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := runCycle(ctx, deps, sink); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Keep polling; the previous archive stays displayable.
			deps.logger.Warn("cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func runCycle(ctx context.Context, deps cycleDeps, sink storage.Storage) error {
	var result series.Series
	err := withRetry(ctx, deps.cfg.MaxRetries, deps.cfg.RetryBackoff, func(ctx context.Context) error {
		var buildErr error
		result, buildErr = deps.builder.Build(ctx, deps.inputs)
		return buildErr
	})
	if err != nil {
		return err
	}

	records := seriesRecords(deps.cfg.User, result)
	if err := sink.PutSeriesBatch(records); err != nil {
		return fmt.Errorf("write series: %w", err)
	}

	deps.logger.Info("cycle complete", zap.Int("points", len(records)))
	return nil
}

func seriesRecords(user string, result series.Series) []storage.SeriesRecord {
	cycleAt := time.Now().UTC().Format(time.RFC3339)
	records := make([]storage.SeriesRecord, 0, len(result.Deposits)+len(result.Borrows)+len(result.Collateral))
	for _, point := range result.Deposits {
		records = append(records, storage.SeriesRecord{User: user, Series: "deposits", CycleAt: cycleAt, Point: point})
	}
	for _, point := range result.Borrows {
		records = append(records, storage.SeriesRecord{User: user, Series: "borrows", CycleAt: cycleAt, Point: point})
	}
	for _, point := range result.Collateral {
		records = append(records, storage.SeriesRecord{User: user, Series: "collateral", CycleAt: cycleAt, Point: point})
	}
	return records
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
