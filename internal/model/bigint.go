package model

import (
	"fmt"
	"math/big"
)

// ParseBigInt parses a decimal string into a big.Int. Empty strings decode to zero.
func ParseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

// ScaleDown converts a raw fixed-point integer into a big.Rat using the token decimals.
func ScaleDown(value *big.Int, decimals uint8) *big.Rat {
	if value == nil {
		return new(big.Rat)
	}
	if decimals == 0 {
		return new(big.Rat).SetInt(value)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(value, denom)
}
