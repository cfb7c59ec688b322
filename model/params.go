package model

import "github.com/shopspring/decimal"

// RiskParams are the global inputs of one recompute pass.
type RiskParams struct {
	MarkPrice             decimal.Decimal
	FeeRate               decimal.Decimal
	MaintenanceMarginRate decimal.Decimal
}

// MarkPrices allows per-symbol marks when the feed covers several contracts.
// Symbols without an entry fall back to RiskParams.MarkPrice.
type MarkPrices map[string]decimal.Decimal

func (m MarkPrices) For(symbol string, fallback decimal.Decimal) decimal.Decimal {
	if price, ok := m[symbol]; ok {
		return price
	}
	return fallback
}
