package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the simulated balance. Balance only moves on close, reset,
// deposit or withdraw; floating P&L never touches it.
type Account struct {
	ID             int64           `db:"id" json:"id" gorm:"primaryKey,autoIncrement"`
	Balance        decimal.Decimal `db:"balance" json:"balance" gorm:"type:decimal(32,16)"`
	InitialBalance decimal.Decimal `db:"initial_balance" json:"initial_balance" gorm:"type:decimal(32,16)"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// AccountSummary is a pure aggregation over the ledger, no mutation.
type AccountSummary struct {
	TotalMarginCross    decimal.Decimal `json:"total_margin_cross"`
	TotalMarginIsolated decimal.Decimal `json:"total_margin_isolated"`
	TotalMargin         decimal.Decimal `json:"total_margin"`
	TotalOpenFee        decimal.Decimal `json:"total_open_fee"`
	TotalCloseFee       decimal.Decimal `json:"total_close_fee"`
	TotalFee            decimal.Decimal `json:"total_fee"`
	TotalUnrealizedPnl  decimal.Decimal `json:"total_unrealized_pnl"`
	TotalRealizedPnl    decimal.Decimal `json:"total_realized_pnl"`
	AvailableBalance    decimal.Decimal `json:"available_balance"`
	TransferableBalance decimal.Decimal `json:"transferable_balance"`
}
