package series

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"testing"

	"positionScope/internal/model"
	"positionScope/internal/subgraph"
)

type stubFetcher struct {
	result subgraph.FetchResult
	err    error
}

func (s *stubFetcher) Fetch(_ context.Context) (subgraph.FetchResult, error) {
	return s.result, s.err
}

func TestBuildEmptyFetch(t *testing.T) {
	builder := NewBuilder(&stubFetcher{}, nil)

	result, err := builder.Build(context.Background(), Inputs{User: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Deposits) != 0 || len(result.Borrows) != 0 || len(result.Collateral) != 0 {
		t.Fatalf("empty fetch should yield three empty series: %+v", result)
	}
}

func TestBuildFetchError(t *testing.T) {
	builder := NewBuilder(&stubFetcher{err: fmt.Errorf("boom")}, nil)

	_, err := builder.Build(context.Background(), Inputs{})
	if err == nil {
		t.Fatalf("fetch failure must fail the cycle")
	}
}

func TestBuildIdempotent(t *testing.T) {
	pool := "0x1111111111111111111111111111111111111111"
	user := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

	fetched := subgraph.FetchResult{
		PoolSnapshots: []model.PoolSnapshot{
			{LendingPool: pool, Timestamp: 100, TotalSupplyAssets: big.NewInt(1000), TotalBorrowAssets: big.NewInt(400), SupplyAPR: big.NewInt(0), BorrowRate: big.NewInt(0)},
			{LendingPool: pool, Timestamp: 200, TotalSupplyAssets: big.NewInt(2000), TotalBorrowAssets: big.NewInt(800), SupplyAPR: big.NewInt(0), BorrowRate: big.NewInt(0)},
		},
		SupplyCollateralEvents: []model.CollateralEvent{
			{LendingPool: pool, User: user, Amount: tokens(10), Timestamp: 150},
		},
	}

	inputs := Inputs{
		User: user,
		Deposits: []model.UserPoolPosition{{
			PoolAddress: pool,
			Amount:      big.NewInt(500),
			TotalSupply: big.NewInt(2000),
			Price:       big.NewInt(1),
		}},
		Loans: []model.UserPoolPosition{{
			PoolAddress: pool,
			Amount:      big.NewInt(200),
			TotalBorrow: big.NewInt(800),
			Price:       big.NewInt(1),
		}},
		CollateralInfos: []model.PoolCollateralInfo{{
			PoolAddress:        pool,
			CollateralDecimals: 18,
			CollateralPrice:    big.NewInt(2),
		}},
	}

	first := Compute(fetched, inputs)
	second := Compute(fetched, inputs)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs must yield identical series:\n%+v\n%+v", first, second)
	}

	if len(first.Deposits) != 2 || len(first.Borrows) != 2 || len(first.Collateral) != 1 {
		t.Fatalf("series length mismatch: %+v", first)
	}
	if first.Deposits[0].TotalDeposits != 250 {
		t.Fatalf("deposit estimate mismatch: %+v", first.Deposits[0])
	}
	if first.Borrows[0].TotalBorrows != 100 {
		t.Fatalf("borrow estimate mismatch: %+v", first.Borrows[0])
	}
	if first.Collateral[0].TotalCollateral != 20 {
		t.Fatalf("collateral replay mismatch: %+v", first.Collateral[0])
	}
}
