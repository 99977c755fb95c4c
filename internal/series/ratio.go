package series

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

// PoolRatio is the user's ephemeral share of one pool's totals, plus the
// cached price and decimals needed for USD conversion. Ratios live in [0,1]
// and are exactly zero when the pool total is zero.
type PoolRatio struct {
	DepositRatio       *big.Rat
	BorrowRatio        *big.Rat
	TokenDecimals      uint8
	CollateralDecimals uint8
	Price              *big.Rat
}

// BuildRatios merges deposit and loan positions into one ratio per pool,
// keyed by canonical address. A pool present only on one side keeps a zero
// ratio on the other. Ratios above one or zero prices are tolerated, the
// whole series is a best-effort estimate.
func BuildRatios(deposits, loans []model.UserPoolPosition) map[common.Address]*PoolRatio {
	ratios := make(map[common.Address]*PoolRatio)

	for _, position := range deposits {
		ratio := upsertRatio(ratios, position)
		ratio.DepositRatio = shareOf(position.Amount, position.TotalSupply)
	}

	for _, position := range loans {
		ratio := upsertRatio(ratios, position)
		ratio.BorrowRatio = shareOf(position.Amount, position.TotalBorrow)
	}

	return ratios
}

func upsertRatio(ratios map[common.Address]*PoolRatio, position model.UserPoolPosition) *PoolRatio {
	key := common.HexToAddress(position.PoolAddress)
	ratio, ok := ratios[key]
	if !ok {
		ratio = &PoolRatio{
			DepositRatio:       new(big.Rat),
			BorrowRatio:        new(big.Rat),
			TokenDecimals:      position.TokenDecimals,
			CollateralDecimals: position.CollateralDecimals,
			Price:              model.ScaleDown(position.Price, position.PriceDecimals),
		}
		ratios[key] = ratio
	}
	return ratio
}

// shareOf returns amount/total as a big.Rat, or zero when the total is zero.
func shareOf(amount, total *big.Int) *big.Rat {
	if amount == nil || total == nil || total.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(amount, total)
}
