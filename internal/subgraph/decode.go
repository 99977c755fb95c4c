package subgraph

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"go.uber.org/zap"

	"positionScope/internal/model"
)

// FetchResult holds the three raw collections of one batched query.
type FetchResult struct {
	PoolSnapshots            []model.PoolSnapshot
	SupplyCollateralEvents   []model.CollateralEvent
	WithdrawCollateralEvents []model.CollateralEvent
}

type snapshotItem struct {
	ID                 string `json:"id"`
	LendingPool        string `json:"lendingPool"`
	Router             string `json:"router"`
	EventType          string `json:"eventType"`
	BlockNumber        string `json:"blockNumber"`
	Timestamp          string `json:"timestamp"`
	TotalSupplyAssets  string `json:"totalSupplyAssets"`
	TotalBorrowAssets  string `json:"totalBorrowAssets"`
	TotalCollateral    string `json:"totalCollateral"`
	AvailableLiquidity string `json:"availableLiquidity"`
	SupplyAPR          string `json:"supplyAPR"`
	BorrowRate         string `json:"borrowRate"`
	Utilization        string `json:"utilization"`
}

type collateralItem struct {
	Amount      string `json:"amount"`
	LendingPool string `json:"lendingPool"`
	Timestamp   string `json:"timestamp"`
	User        string `json:"user"`
}

type snapshotList struct {
	Items []snapshotItem `json:"items"`
}

type collateralList struct {
	Items []collateralItem `json:"items"`
}

type responseEnvelope struct {
	Data struct {
		PoolSnapshots            snapshotList   `json:"poolSnapshots"`
		SupplyCollateralEvents   collateralList `json:"supplyCollateralEvents"`
		WithdrawCollateralEvents collateralList `json:"withdrawCollateralEvents"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// DecodeResponse parses the GraphQL envelope. Missing collections become
// empty lists; items with unparseable numeric fields are dropped with a
// warning rather than failing the cycle.
func DecodeResponse(payload []byte, logger *zap.Logger) (FetchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return FetchResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return FetchResult{}, fmt.Errorf("query error: %s", envelope.Errors[0].Message)
	}

	result := FetchResult{
		PoolSnapshots:            make([]model.PoolSnapshot, 0, len(envelope.Data.PoolSnapshots.Items)),
		SupplyCollateralEvents:   make([]model.CollateralEvent, 0, len(envelope.Data.SupplyCollateralEvents.Items)),
		WithdrawCollateralEvents: make([]model.CollateralEvent, 0, len(envelope.Data.WithdrawCollateralEvents.Items)),
	}

	for _, item := range envelope.Data.PoolSnapshots.Items {
		snapshot, err := decodeSnapshot(item)
		if err != nil {
			logger.Warn("drop pool snapshot", zap.String("id", item.ID), zap.Error(err))
			continue
		}
		result.PoolSnapshots = append(result.PoolSnapshots, snapshot)
	}

	for _, item := range envelope.Data.SupplyCollateralEvents.Items {
		event, err := decodeCollateralEvent(item)
		if err != nil {
			logger.Warn("drop supply collateral event", zap.String("pool", item.LendingPool), zap.Error(err))
			continue
		}
		result.SupplyCollateralEvents = append(result.SupplyCollateralEvents, event)
	}

	for _, item := range envelope.Data.WithdrawCollateralEvents.Items {
		event, err := decodeCollateralEvent(item)
		if err != nil {
			logger.Warn("drop withdraw collateral event", zap.String("pool", item.LendingPool), zap.Error(err))
			continue
		}
		result.WithdrawCollateralEvents = append(result.WithdrawCollateralEvents, event)
	}

	return result, nil
}

func decodeSnapshot(item snapshotItem) (model.PoolSnapshot, error) {
	timestamp, err := parseTimestamp(item.Timestamp)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("timestamp: %w", err)
	}
	blockNumber, err := parseTimestamp(item.BlockNumber)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("block number: %w", err)
	}

	snapshot := model.PoolSnapshot{
		ID:          item.ID,
		LendingPool: item.LendingPool,
		Router:      item.Router,
		EventType:   item.EventType,
		BlockNumber: blockNumber,
		Timestamp:   timestamp,
	}

	fields := []struct {
		name  string
		raw   string
		value **big.Int
	}{
		{"totalSupplyAssets", item.TotalSupplyAssets, &snapshot.TotalSupplyAssets},
		{"totalBorrowAssets", item.TotalBorrowAssets, &snapshot.TotalBorrowAssets},
		{"totalCollateral", item.TotalCollateral, &snapshot.TotalCollateral},
		{"availableLiquidity", item.AvailableLiquidity, &snapshot.AvailableLiquidity},
		{"supplyAPR", item.SupplyAPR, &snapshot.SupplyAPR},
		{"borrowRate", item.BorrowRate, &snapshot.BorrowRate},
		{"utilization", item.Utilization, &snapshot.Utilization},
	}
	for _, field := range fields {
		parsed, err := model.ParseBigInt(field.raw)
		if err != nil {
			return model.PoolSnapshot{}, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = parsed
	}

	return snapshot, nil
}

func decodeCollateralEvent(item collateralItem) (model.CollateralEvent, error) {
	timestamp, err := parseTimestamp(item.Timestamp)
	if err != nil {
		return model.CollateralEvent{}, fmt.Errorf("timestamp: %w", err)
	}
	amount, err := model.ParseBigInt(item.Amount)
	if err != nil {
		return model.CollateralEvent{}, fmt.Errorf("amount: %w", err)
	}

	return model.CollateralEvent{
		LendingPool: item.LendingPool,
		User:        item.User,
		Amount:      amount,
		Timestamp:   timestamp,
	}, nil
}

func parseTimestamp(value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid uint: %s", value)
	}
	return parsed, nil
}
