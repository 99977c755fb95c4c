package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"positionScope/internal/model"
)

type positionItem struct {
	PoolAddress        string  `json:"pool_address"`
	TokenDecimals      uint8   `json:"token_decimals"`
	CollateralDecimals uint8   `json:"collateral_decimals"`
	Price              string  `json:"price"`
	PriceDecimals      uint8   `json:"price_decimals"`
	TotalSupply        string  `json:"total_supply"`
	TotalBorrow        string  `json:"total_borrow"`
	Amount             string  `json:"amount"`
	ValueUSD           float64 `json:"value_usd"`
}

type collateralInfoItem struct {
	PoolAddress        string `json:"pool_address"`
	RouterAddress      string `json:"router_address"`
	CollateralDecimals uint8  `json:"collateral_decimals"`
	CollateralPrice    string `json:"collateral_price"`
	PriceDecimals      uint8  `json:"price_decimals"`
}

// loadPositions reads caller-supplied positions from a JSON file. An empty
// path means no positions of that kind.
func loadPositions(path string) ([]model.UserPoolPosition, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var items []positionItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse positions: %w", err)
	}

	positions := make([]model.UserPoolPosition, 0, len(items))
	for i, item := range items {
		position := model.UserPoolPosition{
			PoolAddress:        item.PoolAddress,
			TokenDecimals:      item.TokenDecimals,
			CollateralDecimals: item.CollateralDecimals,
			PriceDecimals:      item.PriceDecimals,
			ValueUSD:           item.ValueUSD,
		}

		fields := []struct {
			name  string
			raw   string
			value **big.Int
		}{
			{"price", item.Price, &position.Price},
			{"total_supply", item.TotalSupply, &position.TotalSupply},
			{"total_borrow", item.TotalBorrow, &position.TotalBorrow},
			{"amount", item.Amount, &position.Amount},
		}
		for _, field := range fields {
			parsed, err := model.ParseBigInt(field.raw)
			if err != nil {
				return nil, fmt.Errorf("position %d %s: %w", i, field.name, err)
			}
			*field.value = parsed
		}

		positions = append(positions, position)
	}

	return positions, nil
}

// loadCollateralInfos reads the pool collateral info list from a JSON file.
func loadCollateralInfos(path string) ([]model.PoolCollateralInfo, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collateral info: %w", err)
	}

	var items []collateralInfoItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse collateral info: %w", err)
	}

	infos := make([]model.PoolCollateralInfo, 0, len(items))
	for i, item := range items {
		price, err := model.ParseBigInt(item.CollateralPrice)
		if err != nil {
			return nil, fmt.Errorf("collateral info %d price: %w", i, err)
		}
		infos = append(infos, model.PoolCollateralInfo{
			PoolAddress:        item.PoolAddress,
			RouterAddress:      item.RouterAddress,
			CollateralDecimals: item.CollateralDecimals,
			CollateralPrice:    price,
			PriceDecimals:      item.PriceDecimals,
		})
	}

	return infos, nil
}
