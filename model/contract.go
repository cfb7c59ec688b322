package model

import "github.com/shopspring/decimal"

// Contract describes one listed perpetual contract: the unit value of one
// lot and the default leverage offered at listing.
type Contract struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"enName"`
	ContractSize decimal.Decimal `json:"contractSize"`
	InitLeverage int             `json:"initLeverage"`
}
