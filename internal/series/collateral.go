package series

import (
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

type signedEvent struct {
	pool      common.Address
	amount    *big.Int
	sign      int
	timestamp uint64
}

type collateralPool struct {
	decimals uint8
	price    *big.Rat
}

// ReplayCollateral rebuilds the exact collateral series from the raw event
// log. Events are filtered to the querying user and to pools present in the
// supplied info list, merged with their sign, stably sorted by timestamp,
// and replayed with a running per-pool balance. Each event emits one point
// with the total USD collateral across all pools at that moment.
func ReplayCollateral(supplies, withdrawals []model.CollateralEvent, infos []model.PoolCollateralInfo, user string) []model.ChartDataPoint {
	pools := indexCollateralPools(infos)

	events := make([]signedEvent, 0, len(supplies)+len(withdrawals))
	events = appendQualifying(events, supplies, pools, user, 1)
	events = appendQualifying(events, withdrawals, pools, user, -1)
	if len(events) == 0 {
		return []model.ChartDataPoint{}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].timestamp < events[j].timestamp
	})

	layout := labelFormat(events[0].timestamp, events[len(events)-1].timestamp)

	balances := make(map[common.Address]*big.Int)
	points := make([]model.ChartDataPoint, 0, len(events))

	for _, event := range events {
		balance, ok := balances[event.pool]
		if !ok {
			balance = new(big.Int)
			balances[event.pool] = balance
		}
		if event.sign > 0 {
			balance.Add(balance, event.amount)
		} else {
			balance.Sub(balance, event.amount)
		}
		// Withdrawals beyond the tracked balance clamp to zero instead of
		// going negative; the event log is not guaranteed complete.
		if balance.Sign() < 0 {
			balance.SetInt64(0)
		}

		points = append(points, model.ChartDataPoint{
			Timestamp:       event.timestamp,
			DateLabel:       formatLabel(event.timestamp, layout),
			TotalCollateral: totalCollateralUSD(balances, pools),
		})
	}

	return points
}

func indexCollateralPools(infos []model.PoolCollateralInfo) map[common.Address]collateralPool {
	pools := make(map[common.Address]collateralPool, len(infos))
	for _, info := range infos {
		pool := collateralPool{
			decimals: info.CollateralDecimals,
			price:    model.ScaleDown(info.CollateralPrice, info.PriceDecimals),
		}
		if common.IsHexAddress(info.PoolAddress) {
			pools[common.HexToAddress(info.PoolAddress)] = pool
		}
		if common.IsHexAddress(info.RouterAddress) {
			pools[common.HexToAddress(info.RouterAddress)] = pool
		}
	}
	return pools
}

func appendQualifying(events []signedEvent, raw []model.CollateralEvent, pools map[common.Address]collateralPool, user string, sign int) []signedEvent {
	for _, event := range raw {
		if !strings.EqualFold(event.User, user) {
			continue
		}
		if !common.IsHexAddress(event.LendingPool) {
			continue
		}
		pool := common.HexToAddress(event.LendingPool)
		if _, ok := pools[pool]; !ok {
			continue
		}
		amount := event.Amount
		if amount == nil {
			amount = new(big.Int)
		}
		events = append(events, signedEvent{
			pool:      pool,
			amount:    amount,
			sign:      sign,
			timestamp: event.Timestamp,
		})
	}
	return events
}

func totalCollateralUSD(balances map[common.Address]*big.Int, pools map[common.Address]collateralPool) float64 {
	total := new(big.Rat)
	for pool, balance := range balances {
		info, ok := pools[pool]
		if !ok {
			continue
		}
		value := model.ScaleDown(balance, info.decimals)
		value.Mul(value, info.price)
		total.Add(total, value)
	}
	return ratFloat(total)
}
