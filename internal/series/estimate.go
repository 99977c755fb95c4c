package series

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

// aprScale converts raw 18-decimal rate fixed-point into percent:
// 1e18 raw means 100%.
var aprScale = new(big.Rat).SetFrac(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// Estimate walks the merged time axis and produces the deposit and borrow
// series. For every axis timestamp each pool contributes its share of the
// latest snapshot at or before that time; pools whose first snapshot is
// later contribute nothing. APY and borrow rate are dollar-weighted
// averages across the contributing pools.
func Estimate(grouped map[common.Address][]model.PoolSnapshot, ratios map[common.Address]*PoolRatio, axis []uint64) (deposits, borrows []model.ChartDataPoint) {
	deposits = make([]model.ChartDataPoint, 0, len(axis))
	borrows = make([]model.ChartDataPoint, 0, len(axis))
	if len(axis) == 0 {
		return deposits, borrows
	}

	layout := labelFormat(axis[0], axis[len(axis)-1])

	for _, timestamp := range axis {
		totalDeposit := new(big.Rat)
		totalBorrow := new(big.Rat)
		weightedAPY := new(big.Rat)
		weightedRate := new(big.Rat)

		for key, group := range grouped {
			ratio := ratios[key]
			if ratio == nil {
				continue
			}
			snapshot, ok := latestAtOrBefore(group, timestamp)
			if !ok {
				continue
			}

			deposit := poolValue(snapshot.TotalSupplyAssets, ratio.DepositRatio, ratio.TokenDecimals, ratio.Price)
			borrow := poolValue(snapshot.TotalBorrowAssets, ratio.BorrowRatio, ratio.TokenDecimals, ratio.Price)
			totalDeposit.Add(totalDeposit, deposit)
			totalBorrow.Add(totalBorrow, borrow)

			weightedAPY.Add(weightedAPY, new(big.Rat).Mul(ratePercent(snapshot.SupplyAPR), deposit))
			weightedRate.Add(weightedRate, new(big.Rat).Mul(ratePercent(snapshot.BorrowRate), borrow))
		}

		label := formatLabel(timestamp, layout)
		deposits = append(deposits, model.ChartDataPoint{
			Timestamp:     timestamp,
			DateLabel:     label,
			TotalDeposits: ratFloat(totalDeposit),
			SupplyAPY:     ratFloat(weightedAverage(weightedAPY, totalDeposit)),
		})
		borrows = append(borrows, model.ChartDataPoint{
			Timestamp:    timestamp,
			DateLabel:    label,
			TotalBorrows: ratFloat(totalBorrow),
			BorrowRate:   ratFloat(weightedAverage(weightedRate, totalBorrow)),
		})
	}

	return deposits, borrows
}

// latestAtOrBefore returns the rightmost snapshot with timestamp <= target
// from an ascending-sorted group.
func latestAtOrBefore(group []model.PoolSnapshot, target uint64) (model.PoolSnapshot, bool) {
	idx := sort.Search(len(group), func(i int) bool {
		return group[i].Timestamp > target
	})
	if idx == 0 {
		return model.PoolSnapshot{}, false
	}
	return group[idx-1], true
}

func poolValue(raw *big.Int, ratio *big.Rat, decimals uint8, price *big.Rat) *big.Rat {
	if raw == nil || ratio == nil || price == nil {
		return new(big.Rat)
	}
	value := model.ScaleDown(raw, decimals)
	value.Mul(value, ratio)
	value.Mul(value, price)
	return value
}

func ratePercent(raw *big.Int) *big.Rat {
	if raw == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Mul(new(big.Rat).SetInt(raw), aprScale)
}

// weightedAverage divides the accumulated weight by the total, yielding
// zero when the total is zero rather than dividing.
func weightedAverage(weighted, total *big.Rat) *big.Rat {
	if total.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).Quo(weighted, total)
}

func ratFloat(value *big.Rat) float64 {
	f, _ := value.Float64()
	return f
}
