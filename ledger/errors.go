package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrPositionNotFound  = errors.New("position not found")
	ErrPositionClosed    = errors.New("position already closed")
	ErrInsufficientFunds = errors.New("insufficient available balance")
)

// RequestError rejects an open request before the ledger is touched.
type RequestError struct {
	Err    error
	Symbol string
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("invalid position request: %v", r.Err)
}

func (r *RequestError) Unwrap() error {
	return r.Err
}
