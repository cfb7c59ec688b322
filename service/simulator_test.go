package service

import (
	"context"
	"testing"

	"contractsim/feed"
	"contractsim/ledger"
	"contractsim/model"
	"contractsim/storage"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func testParams() model.RiskParams {
	return model.RiskParams{
		MarkPrice:             dec("20000"),
		FeeRate:               dec("0.0004"),
		MaintenanceMarginRate: dec("0.005"),
	}
}

func testStorage(t *testing.T) storage.Storage {
	st, err := storage.FromSQL(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return st
}

func feedCatalogue() *feed.Catalogue {
	return feed.NewCatalogue([]model.Contract{
		{ID: 1, Symbol: "btc_usdt", Name: "BTCUSDT", ContractSize: dec("0.001"), InitLeverage: 20},
	})
}

func openRequest() ledger.OpenRequest {
	return ledger.OpenRequest{
		Symbol:       "btc_usdt",
		Direction:    model.DirectionTypeLong,
		MarginMode:   model.MarginModeTypeIsolated,
		EntryPrice:   dec("20000"),
		Quantity:     dec("1"),
		Leverage:     dec("10"),
		ContractSize: dec("0.001"),
	}
}

func TestSimulatorOpenPersists(t *testing.T) {
	st := testStorage(t)
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))

	position, err := simulator.OpenPosition(openRequest())
	require.NoError(t, err)

	persisted, err := st.Positions()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, position.PositionCode, persisted[0].PositionCode)
	assert.True(t, persisted[0].Margin.Equal(dec("2")))
}

func TestSimulatorCatalogueDefaults(t *testing.T) {
	catalogue := feedCatalogue()
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()), WithCatalogue(catalogue))

	request := openRequest()
	request.ContractSize = decimal.Zero
	request.Leverage = decimal.Zero

	position, err := simulator.OpenPosition(request)
	require.NoError(t, err)
	assert.True(t, position.ContractSize.Equal(dec("0.001")))
	assert.True(t, position.Leverage.Equal(dec("20")))
}

func TestSimulatorMarkPriceUpdatesAndPersists(t *testing.T) {
	st := testStorage(t)
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))

	position, err := simulator.OpenPosition(openRequest())
	require.NoError(t, err)

	simulator.SetMarkPrice("btc_usdt", dec("21000"))

	updated, err := simulator.Position(position.PositionCode)
	require.NoError(t, err)
	assert.True(t, updated.UnrealizedPnl.Equal(dec("1")))

	persisted, err := st.Positions()
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.True(t, persisted[0].MarkPrice.Equal(dec("21000")))
}

func TestSimulatorRestore(t *testing.T) {
	st := testStorage(t)
	first := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))

	opened, err := first.OpenPosition(openRequest())
	require.NoError(t, err)
	require.NoError(t, first.Deposit(dec("500")))

	second := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))
	require.NoError(t, second.Start(context.Background()))

	account := second.Account()
	assert.True(t, account.Balance.Equal(dec("1500")))

	restored, err := second.Position(opened.PositionCode)
	require.NoError(t, err)
	assert.True(t, restored.Margin.Equal(dec("2")))
	assert.True(t, restored.IsOpen())
}

func TestSimulatorStartFreshDatabase(t *testing.T) {
	st := testStorage(t)
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))

	require.NoError(t, simulator.Start(context.Background()))

	account := simulator.Account()
	assert.True(t, account.Balance.Equal(dec("1000")))
	assert.Empty(t, simulator.Positions())
}

func TestSimulatorCloseAtMark(t *testing.T) {
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()))

	position, err := simulator.OpenPosition(openRequest())
	require.NoError(t, err)

	simulator.SetMarkPrice("btc_usdt", dec("21000"))

	closed, err := simulator.ClosePositionAtMark(position.PositionCode)
	require.NoError(t, err)
	assert.True(t, closed.ClosePrice.Equal(dec("21000")))
	assert.True(t, closed.RealizedPnl.Equal(dec("1")))
}

func TestSimulatorDeleteRemovesFromStorage(t *testing.T) {
	st := testStorage(t)
	simulator := NewSimulator(ledger.New(dec("1000"), testParams()), WithStorage(st))

	position, err := simulator.OpenPosition(openRequest())
	require.NoError(t, err)
	require.NoError(t, simulator.DeletePosition(position.PositionCode))

	persisted, err := st.Positions()
	require.NoError(t, err)
	assert.Empty(t, persisted)
}
