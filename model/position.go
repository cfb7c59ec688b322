package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DirectionType string
type MarginModeType string
type PositionStatusType string

var (
	DirectionTypeLong  DirectionType = "LONG"
	DirectionTypeShort DirectionType = "SHORT"

	MarginModeTypeCross    MarginModeType = "CROSS"
	MarginModeTypeIsolated MarginModeType = "ISOLATED"

	PositionStatusTypeOpen   PositionStatusType = "OPEN"
	PositionStatusTypeClosed PositionStatusType = "CLOSED"
)

// Position is one contract position of the simulated account. Static terms
// (Symbol, Direction, EntryPrice, Quantity, Leverage, ContractSize) are fixed
// at open time; the derived block is rewritten by every recompute pass while
// the position is open.
type Position struct {
	ID           int64              `db:"id" json:"id" gorm:"primaryKey,autoIncrement"`
	PositionCode string             `db:"position_code" json:"position_code"`
	Symbol       string             `db:"symbol" json:"symbol"`
	Direction    DirectionType      `db:"direction" json:"direction"`
	MarginMode   MarginModeType     `db:"margin_mode" json:"margin_mode"`
	Status       PositionStatusType `db:"status" json:"status"`

	EntryPrice   decimal.Decimal `db:"entry_price" json:"entry_price" gorm:"type:decimal(32,16)"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity" gorm:"type:decimal(32,16)"`
	Leverage     decimal.Decimal `db:"leverage" json:"leverage" gorm:"type:decimal(32,16)"`
	ContractSize decimal.Decimal `db:"contract_size" json:"contract_size" gorm:"type:decimal(32,16)"`

	// Derived on every pass while open.
	MarkPrice         decimal.Decimal `db:"mark_price" json:"mark_price" gorm:"type:decimal(32,16)"`
	PositionValue     decimal.Decimal `db:"position_value" json:"position_value" gorm:"type:decimal(32,16)"`
	Margin            decimal.Decimal `db:"margin" json:"margin" gorm:"type:decimal(32,16)"`
	MaintenanceMargin decimal.Decimal `db:"maintenance_margin" json:"maintenance_margin" gorm:"type:decimal(32,16)"`
	OpenFee           decimal.Decimal `db:"open_fee" json:"open_fee" gorm:"type:decimal(32,16)"`
	UnrealizedPnl     decimal.Decimal `db:"unrealized_pnl" json:"unrealized_pnl" gorm:"type:decimal(32,16)"`
	Dex               decimal.Decimal `db:"dex" json:"dex" gorm:"type:decimal(32,16)"`
	LiquidationPrice  decimal.Decimal `db:"liquidation_price" json:"liquidation_price" gorm:"type:decimal(32,16)"`
	HasLiquidation    bool            `db:"has_liquidation" json:"has_liquidation"`

	// Set once on close.
	ClosePrice  decimal.Decimal `db:"close_price" json:"close_price" gorm:"type:decimal(32,16)"`
	CloseFee    decimal.Decimal `db:"close_fee" json:"close_fee" gorm:"type:decimal(32,16)"`
	RealizedPnl decimal.Decimal `db:"realized_pnl" json:"realized_pnl" gorm:"type:decimal(32,16)"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	ClosedAt  time.Time `db:"closed_at" json:"closed_at"`

	// Netting metadata, present only on synthetic merged records.
	IsMerged    bool            `json:"is_merged" gorm:"-"`
	MergeSource []Position      `json:"-" gorm:"-"`
	NetQuantity decimal.Decimal `json:"net_quantity" gorm:"-"`
}

func (p Position) IsOpen() bool {
	return p.Status == PositionStatusTypeOpen
}

func (p Position) IsClosed() bool {
	return p.Status == PositionStatusTypeClosed
}

func (p Position) String() string {
	return fmt.Sprintf("Symbol: %s | Direction: %s | MarginMode: %s | Code: %s, Quantity: %v, Entry: %v, Status: %s",
		p.Symbol,
		p.Direction,
		p.MarginMode,
		p.PositionCode,
		p.Quantity,
		p.EntryPrice,
		p.Status,
	)
}
