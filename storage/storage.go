package storage

import (
	"time"

	"contractsim/model"
)

type PositionFilter func(model.Position) bool

// Storage persists positions and account snapshots between runs of the
// simulator.
type Storage interface {
	CreatePosition(position *model.Position) error
	UpdatePosition(position *model.Position) error
	DeletePosition(position *model.Position) error
	Positions(filters ...PositionFilter) ([]*model.Position, error)

	SaveAccount(account *model.Account) error
	// Account is nil (with a nil error) when no snapshot was saved yet.
	Account() (*model.Account, error)
}

func WithStatus(status model.PositionStatusType) PositionFilter {
	return func(position model.Position) bool {
		return position.Status == status
	}
}

func WithSymbol(symbol string) PositionFilter {
	return func(position model.Position) bool {
		return position.Symbol == symbol
	}
}

func WithMarginMode(mode model.MarginModeType) PositionFilter {
	return func(position model.Position) bool {
		return position.MarginMode == mode
	}
}

func WithPositionCode(code string) PositionFilter {
	return func(position model.Position) bool {
		return position.PositionCode == code
	}
}

func WithUpdateAtBeforeOrEqual(t time.Time) PositionFilter {
	return func(position model.Position) bool {
		return !position.UpdatedAt.After(t)
	}
}
