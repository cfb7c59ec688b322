package engine

import (
	"testing"

	"contractsim/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params() model.RiskParams {
	return model.RiskParams{
		MarkPrice:             dec(20000),
		FeeRate:               dec(0.0004),
		MaintenanceMarginRate: dec(0.005),
	}
}

func find(t *testing.T, positions []model.Position, code string) model.Position {
	t.Helper()
	for _, pos := range positions {
		if pos.PositionCode == code {
			return pos
		}
	}
	t.Fatalf("position %s not found", code)
	return model.Position{}
}

func TestPipelineIsolatedExample(t *testing.T) {
	pos := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeIsolated, 20000, 10, 10)
	pos.PositionCode = "a"

	result := NewPipeline().Run([]model.Position{pos}, dec(1000), params(), nil)

	got := find(t, result, "a")
	require.True(t, got.HasLiquidation)
	assert.True(t, got.Dex.Equal(dec(1.892)), "dex: %s", got.Dex)
	assert.True(t, got.LiquidationPrice.Equal(dec(18108)), "liquidation: %s", got.LiquidationPrice)
}

func TestPipelineBroadcastsMergedFigures(t *testing.T) {
	long := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 20000, 10, 10)
	long.PositionCode = "a"
	short := openPosition("btc_usdt", model.DirectionTypeShort, model.MarginModeTypeCross, 22000, 4, 10)
	short.PositionCode = "b"

	result := NewPipeline().Run([]model.Position{long, short}, dec(1000), params(), nil)

	a, b := find(t, result, "a"), find(t, result, "b")
	require.True(t, a.HasLiquidation)
	require.True(t, b.HasLiquidation)

	// Same-symbol cross rows show identical risk figures.
	assert.True(t, a.Dex.Equal(b.Dex))
	assert.True(t, a.LiquidationPrice.Equal(b.LiquidationPrice))
}

func TestPipelineZeroNetGroup(t *testing.T) {
	long := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 20000, 10, 10)
	long.PositionCode = "a"
	short := openPosition("btc_usdt", model.DirectionTypeShort, model.MarginModeTypeCross, 21000, 10, 10)
	short.PositionCode = "b"

	result := NewPipeline().Run([]model.Position{long, short}, dec(1000), params(), nil)

	// A flat group produces no liquidation price for that symbol.
	assert.False(t, find(t, result, "a").HasLiquidation)
	assert.False(t, find(t, result, "b").HasLiquidation)
}

func TestPipelineIsolationIndependence(t *testing.T) {
	a := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeIsolated, 20000, 10, 10)
	a.PositionCode = "a"

	alone := NewPipeline().Run([]model.Position{a}, dec(1000), params(), nil)
	dexAlone := find(t, alone, "a").Dex

	b := openPosition("eth_usdt", model.DirectionTypeShort, model.MarginModeTypeIsolated, 3000, 5, 10)
	b.PositionCode = "b"
	together := NewPipeline().Run([]model.Position{a, b}, dec(1000), params(), nil)

	// An isolated position's buffer never moves with the rest of the account.
	assert.True(t, find(t, together, "a").Dex.Equal(dexAlone))
}

func TestPipelineCrossPooling(t *testing.T) {
	marks := model.MarkPrices{"btc_usdt": dec(20000), "eth_usdt": dec(2900)}

	btc := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 20000, 10, 10)
	btc.PositionCode = "btc"
	iso := openPosition("sol_usdt", model.DirectionTypeLong, model.MarginModeTypeIsolated, 150, 10, 10)
	iso.PositionCode = "iso"

	before := NewPipeline().Run([]model.Position{btc, iso}, dec(1000), params(), marks)
	btcBefore := find(t, before, "btc")
	isoBefore := find(t, before, "iso")

	// A losing cross position on another symbol drains the shared pool.
	eth := openPosition("eth_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 3000, 5, 10)
	eth.PositionCode = "eth"

	after := NewPipeline().Run([]model.Position{btc, iso, eth}, dec(1000), params(), marks)
	btcAfter := find(t, after, "btc")
	isoAfter := find(t, after, "iso")

	assert.True(t, btcAfter.Dex.LessThan(btcBefore.Dex), "cross dex should shrink: %s -> %s", btcBefore.Dex, btcAfter.Dex)
	// Long liquidation moves closer to entry as the buffer shrinks.
	assert.True(t, btcAfter.LiquidationPrice.GreaterThan(btcBefore.LiquidationPrice))
	// The isolated position is untouched.
	assert.True(t, isoAfter.Dex.Equal(isoBefore.Dex))
	assert.True(t, isoAfter.LiquidationPrice.Equal(isoBefore.LiquidationPrice))
}

func TestPipelineDegenerateGroupFallsBack(t *testing.T) {
	long := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 20000, 10, 10)
	long.PositionCode = "a"
	short := openPosition("btc_usdt", model.DirectionTypeShort, model.MarginModeTypeCross, 22000, 4, 10)
	short.PositionCode = "b"

	// Force a zero pooled margin with a zero mark price so valuation yields
	// zero margin for every member.
	zeroMark := model.RiskParams{MarkPrice: decimal.Zero, FeeRate: dec(0.0004), MaintenanceMarginRate: dec(0.005)}
	result := NewPipeline().Run([]model.Position{long, short}, dec(1000), zeroMark, nil)

	// Members still carry individual isolated-style figures instead of
	// failing the pass.
	a, b := find(t, result, "a"), find(t, result, "b")
	require.True(t, a.HasLiquidation)
	require.True(t, b.HasLiquidation)
	assert.True(t, a.Dex.Equal(IsolatedDex(a)))
	assert.True(t, b.Dex.Equal(IsolatedDex(b)))
}

func TestPipelineRecomputeFromScratch(t *testing.T) {
	pos := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeCross, 20000, 10, 10)
	pos.PositionCode = "a"
	pipeline := NewPipeline()

	// Running at one mark, then another, must equal running the second mark
	// alone: no stale intermediate state survives between passes.
	first := pipeline.Run([]model.Position{pos}, dec(1000), params(), nil)
	p := params()
	p.MarkPrice = dec(21000)
	repeated := pipeline.Run(first, dec(1000), p, nil)
	direct := pipeline.Run([]model.Position{pos}, dec(1000), p, nil)

	got, want := find(t, repeated, "a"), find(t, direct, "a")
	assert.True(t, got.Dex.Equal(want.Dex))
	assert.True(t, got.LiquidationPrice.Equal(want.LiquidationPrice))
	assert.True(t, got.UnrealizedPnl.Equal(want.UnrealizedPnl))
	assert.True(t, got.Margin.Equal(want.Margin))
}

func TestPipelineTracerEvents(t *testing.T) {
	pos := openPosition("btc_usdt", model.DirectionTypeLong, model.MarginModeTypeIsolated, 20000, 10, 10)
	pos.PositionCode = "a"

	events := make([]StepEvent, 0)
	pipeline := NewPipeline(WithTracer(func(event StepEvent) {
		events = append(events, event)
	}))
	pipeline.Run([]model.Position{pos}, dec(1000), params(), nil)

	steps := make(map[StepType]bool)
	for _, event := range events {
		steps[event.Step] = true
	}
	assert.True(t, steps[StepValuation])
	assert.True(t, steps[StepDex])
	assert.True(t, steps[StepLiquidation])
}
