package engine

import (
	"contractsim/model"
	"contractsim/utils/calc"

	"github.com/shopspring/decimal"
)

// MergeView is the netted view of the ledger used for DEX and liquidation:
// isolated positions stay individual, open cross positions of one symbol
// collapse into a single synthetic exposure.
type MergeView struct {
	// Entities carries isolated positions, single cross positions and
	// synthetic merged records. Flat groups are absent.
	Entities []model.Position
	// FlatSymbols are cross groups that netted out to zero quantity and were
	// dropped from the view.
	FlatSymbols []string
	// Degenerate are groups whose pooled margin was zero; their members fall
	// back to individual isolated-style figures.
	Degenerate []MergeError
}

// MergeCross builds the netted view of all open positions. Closed positions
// never enter the view.
func MergeCross(positions []model.Position) MergeView {
	view := MergeView{Entities: make([]model.Position, 0, len(positions))}

	groups := make(map[string][]model.Position)
	symbols := make([]string, 0)

	for _, pos := range positions {
		if !pos.IsOpen() {
			continue
		}
		if pos.MarginMode != model.MarginModeTypeCross {
			view.Entities = append(view.Entities, pos)
			continue
		}
		if _, ok := groups[pos.Symbol]; !ok {
			symbols = append(symbols, pos.Symbol)
		}
		groups[pos.Symbol] = append(groups[pos.Symbol], pos)
	}

	for _, symbol := range symbols {
		group := groups[symbol]
		if len(group) == 1 {
			view.Entities = append(view.Entities, group[0])
			continue
		}

		merged, flat, err := mergeGroup(symbol, group)
		if err != nil {
			view.Degenerate = append(view.Degenerate, *err)
			continue
		}
		if flat {
			view.FlatSymbols = append(view.FlatSymbols, symbol)
			continue
		}
		view.Entities = append(view.Entities, merged)
	}

	return view
}

func mergeGroup(symbol string, group []model.Position) (model.Position, bool, *MergeError) {
	contractSize := group[0].ContractSize

	longQty, shortQty := decimal.Zero, decimal.Zero
	longValue, shortValue := decimal.Zero, decimal.Zero

	for _, pos := range group {
		value := pos.Quantity.Mul(pos.EntryPrice).Mul(contractSize)
		if pos.Direction == model.DirectionTypeLong {
			longQty = longQty.Add(pos.Quantity)
			longValue = longValue.Add(value)
		} else {
			shortQty = shortQty.Add(pos.Quantity)
			shortValue = shortValue.Add(value)
		}
	}

	// A fully offset group shares no exposure and is dropped outright.
	netQty := longQty.Sub(shortQty)
	if calc.IsZero(netQty) {
		return model.Position{}, true, nil
	}

	direction := model.DirectionTypeLong
	if netQty.IsNegative() {
		direction = model.DirectionTypeShort
	}

	var avgEntry decimal.Decimal
	if direction == model.DirectionTypeLong {
		avgEntry = longValue.Sub(shortValue).Div(netQty.Mul(contractSize))
	} else {
		avgEntry = shortValue.Sub(longValue).Div(netQty.Abs().Mul(contractSize))
	}

	totalMargin := calc.SumBy(group, func(p model.Position) decimal.Decimal { return p.Margin })
	if totalMargin.IsZero() {
		return model.Position{}, false, &MergeError{Err: ErrDegenerateMerge, Symbol: symbol}
	}

	positionValue := netQty.Abs().Mul(contractSize).Mul(avgEntry)

	merged := model.Position{
		Symbol:        symbol,
		Direction:     direction,
		MarginMode:    model.MarginModeTypeCross,
		Status:        model.PositionStatusTypeOpen,
		EntryPrice:    avgEntry,
		Quantity:      netQty.Abs(),
		ContractSize:  contractSize,
		PositionValue: positionValue,
		Margin:        totalMargin,
		Leverage:      positionValue.Div(totalMargin),
		IsMerged:      true,
		MergeSource:   group,
		NetQuantity:   netQty,
	}
	return merged, false, nil
}
