package ledger

import (
	"errors"

	"contractsim/model"
	"contractsim/utils/validate"

	"github.com/shopspring/decimal"
)

// OpenRequest carries the terms of a new position. Everything else on the
// position is derived.
type OpenRequest struct {
	Symbol       string               `json:"symbol" validate:"required"`
	Direction    model.DirectionType  `json:"direction" validate:"required,oneof=LONG SHORT"`
	MarginMode   model.MarginModeType `json:"margin_mode" validate:"required,oneof=CROSS ISOLATED"`
	EntryPrice   decimal.Decimal      `json:"entry_price"`
	Quantity     decimal.Decimal      `json:"quantity"`
	Leverage     decimal.Decimal      `json:"leverage"`
	ContractSize decimal.Decimal      `json:"contract_size"`
}

func (r OpenRequest) check() error {
	if err := validate.New(r, map[string]string{}); err != nil {
		return &RequestError{Err: err, Symbol: r.Symbol}
	}
	if !r.EntryPrice.IsPositive() {
		return &RequestError{Err: errors.New("entry price must be positive"), Symbol: r.Symbol}
	}
	if !r.Quantity.IsPositive() {
		return &RequestError{Err: errors.New("quantity must be positive"), Symbol: r.Symbol}
	}
	if !r.Leverage.IsPositive() {
		return &RequestError{Err: errors.New("leverage must be positive"), Symbol: r.Symbol}
	}
	if !r.ContractSize.IsPositive() {
		return &RequestError{Err: errors.New("contract size must be positive"), Symbol: r.Symbol}
	}
	return nil
}
