package engine

import (
	"errors"
	"fmt"
)

var (
	ErrDegenerateMerge = errors.New("pooled margin of merged group is zero")
)

// MergeError reports a failed merge for one cross symbol group. The group
// falls back to per-member figures, the rest of the pipeline is unaffected.
type MergeError struct {
	Err    error
	Symbol string
}

func (m *MergeError) Error() string {
	return fmt.Sprintf("merge error on %s: %v", m.Symbol, m.Err)
}

func (m *MergeError) Unwrap() error {
	return m.Err
}
