package model

import "math/big"

// CollateralEvent is one raw supply or withdraw collateral log entry.
// Amount is the unsigned raw token amount; the ledger applies the sign.
type CollateralEvent struct {
	LendingPool string   `json:"lending_pool"`
	User        string   `json:"user"`
	Amount      *big.Int `json:"-"`
	Timestamp   uint64   `json:"timestamp"`
}
