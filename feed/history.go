package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"
)

// History keeps a rolling record of delivered ticks. Keys are
// "tick:<symbol>:<nanos>" so a prefix scan per symbol stays ordered by time.
type History struct {
	db *buntdb.DB
}

// NewHistory opens the tick store at path. Use ":memory:" for an
// ephemeral store.
func NewHistory(path string) (*History, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}

	err = db.CreateIndex("ticks", "tick:*", buntdb.IndexJSON("time"))
	if err != nil && err != buntdb.ErrIndexExists {
		return nil, err
	}

	return &History{db: db}, nil
}

func (h *History) Append(tick Tick) error {
	payload, err := json.Marshal(tick)
	if err != nil {
		return err
	}

	return h.db.Update(func(tx *buntdb.Tx) error {
		key := fmt.Sprintf("tick:%s:%d", tick.Symbol, tick.Time.UnixNano())
		_, _, err := tx.Set(key, string(payload), nil)
		return err
	})
}

// Last returns the most recent tick recorded for symbol.
func (h *History) Last(symbol string) (Tick, bool, error) {
	var (
		tick  Tick
		found bool
	)
	prefix := fmt.Sprintf("tick:%s:", symbol)

	err := h.db.View(func(tx *buntdb.Tx) error {
		var innerErr error
		iterErr := tx.Descend("ticks", func(key, value string) bool {
			if !strings.HasPrefix(key, prefix) {
				return true
			}
			innerErr = json.Unmarshal([]byte(value), &tick)
			found = true
			return false
		})
		if iterErr != nil {
			return iterErr
		}
		return innerErr
	})
	return tick, found, err
}

// Ticks returns every recorded tick for symbol in time order.
func (h *History) Ticks(symbol string) ([]Tick, error) {
	var ticks []Tick
	prefix := fmt.Sprintf("tick:%s:", symbol)

	err := h.db.View(func(tx *buntdb.Tx) error {
		var innerErr error
		iterErr := tx.Ascend("ticks", func(key, value string) bool {
			if !strings.HasPrefix(key, prefix) {
				return true
			}
			var tick Tick
			if innerErr = json.Unmarshal([]byte(value), &tick); innerErr != nil {
				return false
			}
			ticks = append(ticks, tick)
			return true
		})
		if iterErr != nil {
			return iterErr
		}
		return innerErr
	})
	return ticks, err
}

func (h *History) Close() error {
	return h.db.Close()
}
