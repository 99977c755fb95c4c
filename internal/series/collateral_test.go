package series

import (
	"math/big"
	"testing"

	"positionScope/internal/model"
)

func tokens(n int64) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), scale)
}

func TestReplayCollateralScenario(t *testing.T) {
	pool := "0x1111111111111111111111111111111111111111"
	user := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	infos := []model.PoolCollateralInfo{{
		PoolAddress:        pool,
		CollateralDecimals: 18,
		CollateralPrice:    big.NewInt(2),
	}}

	supplies := []model.CollateralEvent{
		{LendingPool: pool, User: user, Amount: tokens(100), Timestamp: 10},
	}
	withdrawals := []model.CollateralEvent{
		{LendingPool: pool, User: user, Amount: tokens(40), Timestamp: 20},
		{LendingPool: pool, User: user, Amount: tokens(1000), Timestamp: 30},
	}

	points := ReplayCollateral(supplies, withdrawals, infos, user)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].TotalCollateral != 200 {
		t.Fatalf("t=10 collateral mismatch: %+v", points[0])
	}
	if points[1].TotalCollateral != 120 {
		t.Fatalf("t=20 collateral mismatch: %+v", points[1])
	}
	// Over-withdrawal clamps the balance to zero, never negative.
	if points[2].TotalCollateral != 0 {
		t.Fatalf("t=30 collateral should clamp to zero: %+v", points[2])
	}

	for i, point := range points {
		if point.TotalCollateral < 0 {
			t.Fatalf("point %d went negative: %+v", i, point)
		}
		if point.TotalDeposits != 0 || point.TotalBorrows != 0 {
			t.Fatalf("point %d should only carry collateral: %+v", i, point)
		}
	}
}

func TestReplayCollateralFiltersUser(t *testing.T) {
	pool := "0x1111111111111111111111111111111111111111"

	infos := []model.PoolCollateralInfo{{
		PoolAddress:        pool,
		CollateralDecimals: 18,
		CollateralPrice:    big.NewInt(1),
	}}

	supplies := []model.CollateralEvent{
		{LendingPool: pool, User: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Amount: tokens(5), Timestamp: 10},
		{LendingPool: pool, User: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Amount: tokens(7), Timestamp: 20},
	}

	// Address match is case-insensitive.
	points := ReplayCollateral(supplies, nil, infos, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if len(points) != 1 {
		t.Fatalf("expected only the matching user's event, got %d points", len(points))
	}
	if points[0].TotalCollateral != 5 {
		t.Fatalf("collateral mismatch: %+v", points[0])
	}
}

func TestReplayCollateralDropsUnknownPool(t *testing.T) {
	user := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	infos := []model.PoolCollateralInfo{{
		PoolAddress:        "0x1111111111111111111111111111111111111111",
		CollateralDecimals: 18,
		CollateralPrice:    big.NewInt(1),
	}}

	supplies := []model.CollateralEvent{
		{LendingPool: "0x9999999999999999999999999999999999999999", User: user, Amount: tokens(5), Timestamp: 10},
	}

	points := ReplayCollateral(supplies, nil, infos, user)
	if len(points) != 0 {
		t.Fatalf("event for unknown pool should be dropped, got %d points", len(points))
	}
}

func TestReplayCollateralRouterKeyMatches(t *testing.T) {
	user := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	infos := []model.PoolCollateralInfo{{
		PoolAddress:        "0x1111111111111111111111111111111111111111",
		RouterAddress:      "0x2222222222222222222222222222222222222222",
		CollateralDecimals: 18,
		CollateralPrice:    big.NewInt(3),
	}}

	supplies := []model.CollateralEvent{
		{LendingPool: "0x2222222222222222222222222222222222222222", User: user, Amount: tokens(2), Timestamp: 10},
	}

	points := ReplayCollateral(supplies, nil, infos, user)
	if len(points) != 1 || points[0].TotalCollateral != 6 {
		t.Fatalf("router-keyed event should qualify: %+v", points)
	}
}

func TestReplayCollateralEmpty(t *testing.T) {
	points := ReplayCollateral(nil, nil, nil, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	if len(points) != 0 {
		t.Fatalf("no events should yield empty series, got %d", len(points))
	}
}

func TestReplayCollateralMultiPoolTotals(t *testing.T) {
	user := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	infos := []model.PoolCollateralInfo{
		{PoolAddress: "0x1111111111111111111111111111111111111111", CollateralDecimals: 18, CollateralPrice: big.NewInt(1)},
		{PoolAddress: "0x2222222222222222222222222222222222222222", CollateralDecimals: 18, CollateralPrice: big.NewInt(2)},
	}

	supplies := []model.CollateralEvent{
		{LendingPool: "0x1111111111111111111111111111111111111111", User: user, Amount: tokens(10), Timestamp: 10},
		{LendingPool: "0x2222222222222222222222222222222222222222", User: user, Amount: tokens(5), Timestamp: 20},
	}

	points := ReplayCollateral(supplies, nil, infos, user)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TotalCollateral != 10 {
		t.Fatalf("first point mismatch: %+v", points[0])
	}
	// Second point sums both pool balances at their own prices.
	if points[1].TotalCollateral != 20 {
		t.Fatalf("second point mismatch: %+v", points[1])
	}
}
