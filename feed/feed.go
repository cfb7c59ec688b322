package feed

import (
	"context"
	"sync"
	"time"

	"contractsim/utils"

	"github.com/StudioSol/set"
	"github.com/jpillora/backoff"
	"github.com/shopspring/decimal"
)

// Tick is one mark-price observation for a symbol.
type Tick struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Time   time.Time       `json:"time"`
}

// Feeder supplies the current mark price for a symbol.
type Feeder interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type TickConsumer func(Tick)

// PriceFeedSubscription polls the feeder for every subscribed symbol at a
// fixed cadence and fans each tick out to its consumers. Polling is the
// trigger cadence of the simulator; one pass fully completes before the next.
type PriceFeedSubscription struct {
	mu                  sync.Mutex
	feeder              Feeder
	interval            time.Duration
	Symbols             *set.LinkedHashSetString
	ConsumersBySymbol   map[string][]TickConsumer
	history             *History
}

func NewPriceFeed(feeder Feeder, interval time.Duration) *PriceFeedSubscription {
	return &PriceFeedSubscription{
		feeder:            feeder,
		interval:          interval,
		Symbols:           set.NewLinkedHashSetString(),
		ConsumersBySymbol: make(map[string][]TickConsumer),
	}
}

// WithHistory records every delivered tick into the embedded store.
func (p *PriceFeedSubscription) WithHistory(history *History) *PriceFeedSubscription {
	p.history = history
	return p
}

func (p *PriceFeedSubscription) Subscribe(symbol string, consumer TickConsumer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Symbols.Add(symbol)
	p.ConsumersBySymbol[symbol] = append(p.ConsumersBySymbol[symbol], consumer)
}

// Start blocks polling until the context is done. Feed errors back off and
// retry without dropping the loop.
func (p *PriceFeedSubscription) Start(ctx context.Context) {
	ba := &backoff.Backoff{
		Min: 100 * time.Millisecond,
		Max: 10 * time.Second,
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	utils.Log.Infof("[SETUP] Price feed polling every %s", p.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for symbol := range p.Symbols.Iter() {
				price, err := p.feeder.LastPrice(ctx, symbol)
				if err != nil {
					utils.Log.Warnf("feed: %s: %v", symbol, err)
					time.Sleep(ba.Duration())
					continue
				}
				ba.Reset()
				p.deliver(Tick{Symbol: symbol, Price: price, Time: time.Now()})
			}
		}
	}
}

func (p *PriceFeedSubscription) deliver(tick Tick) {
	p.mu.Lock()
	consumers := p.ConsumersBySymbol[tick.Symbol]
	p.mu.Unlock()

	if p.history != nil {
		if err := p.history.Append(tick); err != nil {
			utils.Log.Warnf("feed history: %v", err)
		}
	}
	for _, consumer := range consumers {
		consumer(tick)
	}
}
