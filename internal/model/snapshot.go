package model

import "math/big"

// PoolSnapshot is a protocol-wide pool state record sampled by the indexer.
// All raw magnitudes are fixed-point integers (18 decimals unless the token
// says otherwise) and stay arbitrary-precision until USD conversion.
type PoolSnapshot struct {
	ID                 string   `json:"id"`
	LendingPool        string   `json:"lending_pool"`
	Router             string   `json:"router"`
	EventType          string   `json:"event_type"`
	BlockNumber        uint64   `json:"block_number"`
	Timestamp          uint64   `json:"timestamp"`
	TotalSupplyAssets  *big.Int `json:"-"`
	TotalBorrowAssets  *big.Int `json:"-"`
	TotalCollateral    *big.Int `json:"-"`
	AvailableLiquidity *big.Int `json:"-"`
	SupplyAPR          *big.Int `json:"-"`
	BorrowRate         *big.Int `json:"-"`
	Utilization        *big.Int `json:"-"`
}
