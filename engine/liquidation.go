package engine

import (
	"contractsim/model"

	"github.com/shopspring/decimal"
)

// LiquidationPrice derives the forced-liquidation level from the DEX buffer.
// The position-value term is anchored to the entry price, not the mark: the
// buffer absorbs losses measured from where the position was opened.
func LiquidationPrice(pos model.Position, dex decimal.Decimal) decimal.Decimal {
	valueAtEntry := pos.Quantity.Mul(pos.ContractSize).Mul(pos.EntryPrice)
	denominator := pos.Quantity.Mul(pos.ContractSize)

	if pos.Direction == model.DirectionTypeLong {
		return valueAtEntry.Sub(dex).Div(denominator)
	}
	return valueAtEntry.Add(dex).Div(denominator)
}
