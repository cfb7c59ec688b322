package storage

import (
	"testing"
	"time"

	"contractsim/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func memoryStorage(t *testing.T) Storage {
	t.Helper()
	st, err := FromSQL(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return st
}

func samplePosition(code, symbol string, status model.PositionStatusType) *model.Position {
	return &model.Position{
		PositionCode: code,
		Symbol:       symbol,
		Direction:    model.DirectionTypeLong,
		MarginMode:   model.MarginModeTypeCross,
		Status:       status,
		EntryPrice:   decimal.NewFromInt(20000),
		Quantity:     decimal.NewFromInt(10),
		Leverage:     decimal.NewFromInt(10),
		ContractSize: decimal.NewFromFloat(0.0001),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestPositionRoundTrip(t *testing.T) {
	st := memoryStorage(t)

	pos := samplePosition("abc123", "btc_usdt", model.PositionStatusTypeOpen)
	require.NoError(t, st.CreatePosition(pos))

	positions, err := st.Positions()
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "abc123", positions[0].PositionCode)
	assert.True(t, positions[0].EntryPrice.Equal(decimal.NewFromInt(20000)))

	pos.Status = model.PositionStatusTypeClosed
	require.NoError(t, st.UpdatePosition(pos))

	positions, err = st.Positions(WithStatus(model.PositionStatusTypeClosed))
	require.NoError(t, err)
	require.Len(t, positions, 1)

	require.NoError(t, st.DeletePosition(pos))
	positions, err = st.Positions()
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPositionFilters(t *testing.T) {
	st := memoryStorage(t)

	require.NoError(t, st.CreatePosition(samplePosition("a", "btc_usdt", model.PositionStatusTypeOpen)))
	require.NoError(t, st.CreatePosition(samplePosition("b", "eth_usdt", model.PositionStatusTypeOpen)))
	require.NoError(t, st.CreatePosition(samplePosition("c", "btc_usdt", model.PositionStatusTypeClosed)))

	positions, err := st.Positions(WithSymbol("btc_usdt"), WithStatus(model.PositionStatusTypeOpen))
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "a", positions[0].PositionCode)

	positions, err = st.Positions(WithPositionCode("b"))
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "eth_usdt", positions[0].Symbol)
}

func TestAccountEmptyDatabase(t *testing.T) {
	st := memoryStorage(t)

	got, err := st.Account()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountSnapshot(t *testing.T) {
	st := memoryStorage(t)

	account := &model.Account{
		Balance:        decimal.NewFromInt(1000),
		InitialBalance: decimal.NewFromInt(1000),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, st.SaveAccount(account))

	account.Balance = decimal.NewFromInt(1100)
	require.NoError(t, st.SaveAccount(account))

	got, err := st.Account()
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1100)))
	assert.True(t, got.InitialBalance.Equal(decimal.NewFromInt(1000)))
}
