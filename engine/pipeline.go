package engine

import (
	"contractsim/model"

	"github.com/shopspring/decimal"
)

// Pipeline runs the full recompute pass in its mandatory order: valuation,
// netting, DEX, liquidation price. Every stage returns new position values;
// the caller's slice is never mutated. The pipeline holds no state between
// runs, so every trigger recomputes everything from scratch.
type Pipeline struct {
	tracer Tracer
}

type PipelineOption func(*Pipeline)

func WithTracer(tracer Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

func NewPipeline(options ...PipelineOption) *Pipeline {
	pipeline := &Pipeline{}
	for _, option := range options {
		option(pipeline)
	}
	return pipeline
}

// Run recomputes every derived figure of the given positions and returns the
// updated set in the same order. Marks may be nil; params.MarkPrice is the
// fallback for symbols without a feed price.
func (p *Pipeline) Run(positions []model.Position, balance decimal.Decimal, params model.RiskParams, marks model.MarkPrices) []model.Position {
	// Stage 1: base valuation over every position. Cross pooling in stage 3
	// needs the maintenance margin, fee and floating P&L of all of them.
	updated := ValuateAll(positions, params, marks)
	p.trace(StepValuation, "", "valuated %d positions at mark %s", len(updated), params.MarkPrice)

	open := make([]model.Position, 0, len(updated))
	for _, pos := range updated {
		if pos.IsOpen() {
			open = append(open, pos)
		}
	}

	// Stage 2: net same-symbol cross positions into single exposures.
	view := MergeCross(updated)
	for _, symbol := range view.FlatSymbols {
		p.trace(StepMerge, symbol, "group nets to zero, no risk figures")
	}
	for _, degenerate := range view.Degenerate {
		p.trace(StepMerge, degenerate.Symbol, "merge failed: %v, members fall back to individual figures", degenerate.Err)
	}

	index := positionIndex(updated)

	// Stages 3 and 4 per entity: DEX, then the liquidation price derived from
	// it, broadcast onto every member of a merged group so same-symbol cross
	// rows show identical risk figures.
	for _, entity := range view.Entities {
		var dex decimal.Decimal
		if entity.MarginMode == model.MarginModeTypeIsolated {
			dex = IsolatedDex(entity)
		} else {
			dex = CrossDex(balance, memberOf(entity), open)
		}
		liquidation := LiquidationPrice(entity, dex)
		p.trace(StepDex, entity.Symbol, "dex %s", dex)
		p.trace(StepLiquidation, entity.Symbol, "liquidation price %s", liquidation)

		for _, code := range memberCodes(entity) {
			i := index[code]
			updated[i].Dex = dex
			updated[i].LiquidationPrice = liquidation
			updated[i].HasLiquidation = true
		}
	}

	// Degenerate cross groups keep individual isolated-style figures rather
	// than failing the whole pass.
	for _, degenerate := range view.Degenerate {
		for i, pos := range updated {
			if pos.IsOpen() && pos.Symbol == degenerate.Symbol && pos.MarginMode == model.MarginModeTypeCross {
				dex := IsolatedDex(pos)
				updated[i].Dex = dex
				updated[i].LiquidationPrice = LiquidationPrice(pos, dex)
				updated[i].HasLiquidation = true
			}
		}
	}

	// Flat groups and closed positions carry no risk figures.
	flat := make(map[string]bool, len(view.FlatSymbols))
	for _, symbol := range view.FlatSymbols {
		flat[symbol] = true
	}
	for i, pos := range updated {
		if pos.IsClosed() || (pos.IsOpen() && pos.MarginMode == model.MarginModeTypeCross && flat[pos.Symbol]) {
			updated[i].Dex = decimal.Zero
			updated[i].LiquidationPrice = decimal.Zero
			updated[i].HasLiquidation = false
		}
	}

	return updated
}

func positionIndex(positions []model.Position) map[string]int {
	index := make(map[string]int, len(positions))
	for i, pos := range positions {
		index[pos.PositionCode] = i
	}
	return index
}

// memberOf reports membership of a merge entity's symbol group: the entity
// itself for individual records, every source position for merged ones.
func memberOf(entity model.Position) func(model.Position) bool {
	codes := make(map[string]bool)
	for _, code := range memberCodes(entity) {
		codes[code] = true
	}
	return func(pos model.Position) bool {
		return codes[pos.PositionCode]
	}
}

func memberCodes(entity model.Position) []string {
	if !entity.IsMerged {
		return []string{entity.PositionCode}
	}
	codes := make([]string, 0, len(entity.MergeSource))
	for _, source := range entity.MergeSource {
		codes = append(codes, source.PositionCode)
	}
	return codes
}
