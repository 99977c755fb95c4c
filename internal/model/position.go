package model

import "math/big"

// UserPoolPosition is a caller-supplied current position in one pool,
// either a deposit or a loan. Prices are cached values, not re-fetched.
type UserPoolPosition struct {
	PoolAddress        string
	TokenDecimals      uint8
	CollateralDecimals uint8
	Price              *big.Int
	PriceDecimals      uint8
	TotalSupply        *big.Int
	TotalBorrow        *big.Int
	Amount             *big.Int
	ValueUSD           float64
}

// PoolCollateralInfo describes a pool whose collateral events the user
// wants replayed: token decimals plus the current collateral price.
type PoolCollateralInfo struct {
	PoolAddress        string
	RouterAddress      string
	CollateralDecimals uint8
	CollateralPrice    *big.Int
	PriceDecimals      uint8
}
