package engine

import (
	"testing"

	"contractsim/model"

	"github.com/stretchr/testify/assert"
)

func TestLiquidationPriceLong(t *testing.T) {
	pos := valuedPosition("btc_usdt", "a", model.DirectionTypeLong, model.MarginModeTypeIsolated, 20000, 10, 10)

	// (20 - 1.892) / (10 * 0.0001) = 18108
	price := LiquidationPrice(pos, IsolatedDex(pos))
	assert.True(t, price.Equal(dec(18108)), "liquidation price: %s", price)
}

func TestLiquidationPriceShort(t *testing.T) {
	pos := valuedPosition("btc_usdt", "a", model.DirectionTypeShort, model.MarginModeTypeIsolated, 20000, 10, 10)

	// (20 + 1.892) / (10 * 0.0001) = 21892
	price := LiquidationPrice(pos, IsolatedDex(pos))
	assert.True(t, price.Equal(dec(21892)), "liquidation price: %s", price)
}

func TestLiquidationUsesEntryValue(t *testing.T) {
	pos := valuedPosition("btc_usdt", "a", model.DirectionTypeLong, model.MarginModeTypeIsolated, 20000, 10, 10)
	// A mark move changes the live valuation but not the liquidation anchor.
	moved := Valuate(pos, dec(30000), dec(0.005))

	dex := dec(1.892)
	assert.True(t, LiquidationPrice(moved, dex).Equal(LiquidationPrice(pos, dex)))
}
