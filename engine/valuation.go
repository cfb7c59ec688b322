package engine

import (
	"contractsim/model"
	"contractsim/utils/calc"

	"github.com/shopspring/decimal"
)

// Valuate recomputes the live figures of one position against the mark price.
// Closed positions pass through with unrealized P&L pinned to zero. The open
// fee is an open-time constant and is never touched here; the maintenance
// margin is anchored to the entry price, not the mark.
func Valuate(pos model.Position, markPrice, maintenanceMarginRate decimal.Decimal) model.Position {
	if pos.IsClosed() {
		pos.UnrealizedPnl = decimal.Zero
		return pos
	}

	pos.MarkPrice = markPrice
	pos.PositionValue = pos.Quantity.Mul(pos.ContractSize).Mul(markPrice)
	pos.Margin = pos.PositionValue.Div(pos.Leverage)
	pos.MaintenanceMargin = pos.Quantity.Mul(pos.EntryPrice).Mul(pos.ContractSize).Mul(maintenanceMarginRate)

	delta := calc.DirectionalDelta(pos.Direction == model.DirectionTypeLong, pos.EntryPrice, markPrice)
	pos.UnrealizedPnl = delta.Mul(pos.Quantity).Mul(pos.ContractSize)

	return pos
}

// ValuateAll applies Valuate to every position, returning a new slice.
func ValuateAll(positions []model.Position, params model.RiskParams, marks model.MarkPrices) []model.Position {
	updated := make([]model.Position, len(positions))
	for i, pos := range positions {
		updated[i] = Valuate(pos, marks.For(pos.Symbol, params.MarkPrice), params.MaintenanceMarginRate)
	}
	return updated
}

// OpenFee is charged on the entry-time position value and held constant for
// the life of the position.
func OpenFee(quantity, contractSize, entryPrice, feeRate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(contractSize).Mul(entryPrice).Mul(feeRate)
}

// CloseFee is charged on the close-time position value.
func CloseFee(quantity, contractSize, closePrice, feeRate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(contractSize).Mul(closePrice).Mul(feeRate)
}

// RealizedPnl settles the directional price move over the full quantity.
func RealizedPnl(direction model.DirectionType, entryPrice, closePrice, quantity, contractSize decimal.Decimal) decimal.Decimal {
	delta := calc.DirectionalDelta(direction == model.DirectionTypeLong, entryPrice, closePrice)
	return delta.Mul(quantity).Mul(contractSize)
}
