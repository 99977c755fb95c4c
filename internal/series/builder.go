package series

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"positionScope/internal/model"
	"positionScope/internal/subgraph"
)

// Inputs are the caller-supplied parameters of one computation cycle.
type Inputs struct {
	User            string
	Deposits        []model.UserPoolPosition
	Loans           []model.UserPoolPosition
	CollateralInfos []model.PoolCollateralInfo
}

// Series is the output of one cycle: three chart series. Deposits and
// Borrows are ratio-based estimates on the snapshot axis, Collateral is
// exact event-level replay.
type Series struct {
	Deposits   []model.ChartDataPoint `json:"deposits"`
	Borrows    []model.ChartDataPoint `json:"borrows"`
	Collateral []model.ChartDataPoint `json:"collateral"`
}

// Fetcher is the single remote dependency of the pipeline.
type Fetcher interface {
	Fetch(ctx context.Context) (subgraph.FetchResult, error)
}

// Builder runs the whole reconstruction pipeline. One fetch, one pure
// transform; nothing outlives a Build call.
type Builder struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewBuilder creates a Builder around a fetcher.
func NewBuilder(fetcher Fetcher, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{fetcher: fetcher, logger: logger}
}

// Build fetches the raw collections once and computes all three series.
// A fetch failure fails the cycle with no partial output.
func (b *Builder) Build(ctx context.Context, inputs Inputs) (Series, error) {
	if b.fetcher == nil {
		return Series{}, fmt.Errorf("fetcher is nil")
	}

	result, err := b.fetcher.Fetch(ctx)
	if err != nil {
		return Series{}, fmt.Errorf("fetch: %w", err)
	}

	series := Compute(result, inputs)

	b.logger.Debug("series built",
		zap.String("user", inputs.User),
		zap.Int("deposit_points", len(series.Deposits)),
		zap.Int("borrow_points", len(series.Borrows)),
		zap.Int("collateral_points", len(series.Collateral)),
	)

	return series, nil
}

// Compute is the pure transform stage: deterministic in its inputs, no
// side effects, safe to rerun on identical data.
func Compute(result subgraph.FetchResult, inputs Inputs) Series {
	ratios := BuildRatios(inputs.Deposits, inputs.Loans)
	grouped := IndexSnapshots(result.PoolSnapshots, ratios)
	axis := BuildTimeline(grouped)
	deposits, borrows := Estimate(grouped, ratios, axis)
	collateral := ReplayCollateral(
		result.SupplyCollateralEvents,
		result.WithdrawCollateralEvents,
		inputs.CollateralInfos,
		inputs.User,
	)

	return Series{
		Deposits:   deposits,
		Borrows:    borrows,
		Collateral: collateral,
	}
}
