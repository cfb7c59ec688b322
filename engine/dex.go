package engine

import (
	"contractsim/model"
	"contractsim/utils/calc"

	"github.com/shopspring/decimal"
)

// CrossDex is the free-margin buffer shared by every cross position of one
// symbol group: the whole account's free equity minus maintenance margin and
// open fees of all open positions, minus collateral dedicated to isolated
// positions, plus the floating P&L of every open position outside the group.
// The group's own floating P&L is excluded because it already sits inside the
// group's valuation.
func CrossDex(balance decimal.Decimal, inGroup func(model.Position) bool, open []model.Position) decimal.Decimal {
	totalMaintenance := calc.SumBy(open, func(p model.Position) decimal.Decimal { return p.MaintenanceMargin })
	totalOpenFee := calc.SumBy(open, func(p model.Position) decimal.Decimal { return p.OpenFee })

	totalIsolatedMargin := decimal.Zero
	otherPnl := decimal.Zero
	for _, p := range open {
		if p.MarginMode == model.MarginModeTypeIsolated {
			totalIsolatedMargin = totalIsolatedMargin.Add(p.Margin)
		}
		if !inGroup(p) {
			otherPnl = otherPnl.Add(p.UnrealizedPnl)
		}
	}

	return balance.
		Sub(totalMaintenance).
		Sub(totalOpenFee).
		Sub(totalIsolatedMargin).
		Add(otherPnl)
}

// IsolatedDex is the buffer dedicated to one isolated position; no pooling.
func IsolatedDex(pos model.Position) decimal.Decimal {
	return pos.Margin.Sub(pos.MaintenanceMargin).Sub(pos.OpenFee)
}
