package ledger

import (
	"errors"
	"sync"
	"time"

	"contractsim/engine"
	"contractsim/model"
	"contractsim/utils/calc"
	"contractsim/utils/strutil"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Ledger is the single simulated account: its positions, its balance and the
// risk parameters of the current pass. Every mutating operation re-runs the
// full engine pipeline before returning, so derived figures are never stale.
// The mutex makes the ledger the unit of mutual exclusion; the engine itself
// stays single-threaded.
type Ledger struct {
	sync.Mutex

	counter   int64
	positions []model.Position
	account   model.Account
	params    model.RiskParams
	marks     model.MarkPrices
	pipeline  *engine.Pipeline
	codeFn    func() string
}

type Option func(*Ledger)

func WithTracer(tracer engine.Tracer) Option {
	return func(l *Ledger) {
		l.pipeline = engine.NewPipeline(engine.WithTracer(tracer))
	}
}

func New(initialBalance decimal.Decimal, params model.RiskParams, options ...Option) *Ledger {
	ledger := &Ledger{
		positions: make([]model.Position, 0),
		account: model.Account{
			Balance:        initialBalance,
			InitialBalance: initialBalance,
			UpdatedAt:      time.Now(),
		},
		params:   params,
		marks:    make(model.MarkPrices),
		pipeline: engine.NewPipeline(),
		codeFn:   func() string { return strutil.RandomString(6) },
	}
	for _, option := range options {
		option(ledger)
	}
	return ledger
}

// Restore replaces the ledger state with persisted records and recomputes.
// The last persisted mark of every open position seeds the per-symbol marks
// so figures stay sane until the feed ticks again.
func (l *Ledger) Restore(account model.Account, positions []model.Position) {
	l.Lock()
	defer l.Unlock()

	l.account = account
	l.positions = make([]model.Position, len(positions))
	copy(l.positions, positions)
	for _, pos := range positions {
		if pos.ID > l.counter {
			l.counter = pos.ID
		}
		if pos.IsOpen() && pos.MarkPrice.IsPositive() {
			l.marks[pos.Symbol] = pos.MarkPrice
		}
	}
	l.recompute()
}

// SetRiskParams replaces the global parameters and recomputes.
func (l *Ledger) SetRiskParams(params model.RiskParams) {
	l.Lock()
	defer l.Unlock()

	l.params = params
	l.recompute()
}

// SetMarkPrice records a per-symbol mark and recomputes.
func (l *Ledger) SetMarkPrice(symbol string, price decimal.Decimal) {
	l.Lock()
	defer l.Unlock()

	l.marks[symbol] = price
	l.recompute()
}

// Recompute runs the full pipeline over the current positions.
func (l *Ledger) Recompute() {
	l.Lock()
	defer l.Unlock()

	l.recompute()
}

func (l *Ledger) recompute() {
	l.positions = l.pipeline.Run(l.positions, l.account.Balance, l.params, l.marks)
}

// OpenPosition validates the request, appends a new open position and
// recomputes. The open fee is fixed here from the entry price and never
// recomputed; the balance is untouched until close.
func (l *Ledger) OpenPosition(request OpenRequest) (model.Position, error) {
	if err := request.check(); err != nil {
		return model.Position{}, err
	}

	l.Lock()
	defer l.Unlock()

	l.counter++
	now := time.Now()
	position := model.Position{
		ID:           l.counter,
		PositionCode: l.newPositionCode(),
		Symbol:       request.Symbol,
		Direction:    request.Direction,
		MarginMode:   request.MarginMode,
		Status:       model.PositionStatusTypeOpen,
		EntryPrice:   request.EntryPrice,
		Quantity:     request.Quantity,
		Leverage:     request.Leverage,
		ContractSize: request.ContractSize,
		OpenFee:      engine.OpenFee(request.Quantity, request.ContractSize, request.EntryPrice, l.params.FeeRate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// First mark for a symbol defaults to the entry price until the feed
	// or a manual update says otherwise.
	if _, ok := l.marks[request.Symbol]; !ok && l.params.MarkPrice.IsZero() {
		l.marks[request.Symbol] = request.EntryPrice
	}
	l.positions = append(l.positions, position)
	l.recompute()

	return l.position(position.PositionCode)
}

// ClosePosition realizes the P&L against the close price, debits both fees
// from the balance, freezes the position and recomputes the remainder.
func (l *Ledger) ClosePosition(code string, closePrice decimal.Decimal) (model.Position, error) {
	l.Lock()
	defer l.Unlock()

	i, err := l.indexOf(code)
	if err != nil {
		return model.Position{}, err
	}
	if l.positions[i].IsClosed() {
		return model.Position{}, ErrPositionClosed
	}

	pos := l.positions[i]
	realized := engine.RealizedPnl(pos.Direction, pos.EntryPrice, closePrice, pos.Quantity, pos.ContractSize)
	closeFee := engine.CloseFee(pos.Quantity, pos.ContractSize, closePrice, l.params.FeeRate)

	// Fees are settled here, not reserved at open time.
	l.account.Balance = l.account.Balance.Add(realized).Sub(pos.OpenFee).Sub(closeFee)
	l.account.UpdatedAt = time.Now()

	pos.Status = model.PositionStatusTypeClosed
	pos.ClosePrice = closePrice
	pos.CloseFee = closeFee
	pos.RealizedPnl = realized
	pos.UnrealizedPnl = decimal.Zero
	pos.ClosedAt = time.Now()
	pos.UpdatedAt = pos.ClosedAt
	l.positions[i] = pos

	l.recompute()
	return l.position(code)
}

// DeletePosition removes the record. Deleting an open position changes the
// pooled figures, so it recomputes; deleting a closed one touches nothing.
func (l *Ledger) DeletePosition(code string) error {
	l.Lock()
	defer l.Unlock()

	i, err := l.indexOf(code)
	if err != nil {
		return err
	}
	wasOpen := l.positions[i].IsOpen()
	l.positions = append(l.positions[:i], l.positions[i+1:]...)
	if wasOpen {
		l.recompute()
	}
	return nil
}

// Positions returns a copy of the ledger's records.
func (l *Ledger) Positions() []model.Position {
	l.Lock()
	defer l.Unlock()

	positions := make([]model.Position, len(l.positions))
	copy(positions, l.positions)
	return positions
}

func (l *Ledger) Position(code string) (model.Position, error) {
	l.Lock()
	defer l.Unlock()

	return l.position(code)
}

func (l *Ledger) position(code string) (model.Position, error) {
	i, err := l.indexOf(code)
	if err != nil {
		return model.Position{}, err
	}
	return l.positions[i], nil
}

// newPositionCode draws codes until one is unused; a colliding code would
// alias two positions in every lookup.
func (l *Ledger) newPositionCode() string {
	for {
		code := l.codeFn()
		if _, err := l.indexOf(code); err != nil {
			return code
		}
	}
}

func (l *Ledger) indexOf(code string) (int, error) {
	for i, pos := range l.positions {
		if pos.PositionCode == code {
			return i, nil
		}
	}
	return 0, ErrPositionNotFound
}

func (l *Ledger) Account() model.Account {
	l.Lock()
	defer l.Unlock()

	return l.account
}

// ResetBalance restores the initial balance and recomputes.
func (l *Ledger) ResetBalance() {
	l.Lock()
	defer l.Unlock()

	l.account.Balance = l.account.InitialBalance
	l.account.UpdatedAt = time.Now()
	l.recompute()
}

func (l *Ledger) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &RequestError{Err: errors.New("amount must be positive")}
	}

	l.Lock()
	defer l.Unlock()

	l.account.Balance = l.account.Balance.Add(amount)
	l.account.UpdatedAt = time.Now()
	l.recompute()
	return nil
}

func (l *Ledger) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &RequestError{Err: errors.New("amount must be positive")}
	}

	l.Lock()
	defer l.Unlock()

	if amount.GreaterThan(l.summary().TransferableBalance) {
		return ErrInsufficientFunds
	}
	l.account.Balance = l.account.Balance.Sub(amount)
	l.account.UpdatedAt = time.Now()
	l.recompute()
	return nil
}

// Summary aggregates the account figures without mutating anything.
func (l *Ledger) Summary() model.AccountSummary {
	l.Lock()
	defer l.Unlock()

	return l.summary()
}

func (l *Ledger) summary() model.AccountSummary {
	open := lo.Filter(l.positions, func(p model.Position, _ int) bool { return p.IsOpen() })
	closed := lo.Filter(l.positions, func(p model.Position, _ int) bool { return p.IsClosed() })

	marginCross := calc.SumBy(lo.Filter(open, func(p model.Position, _ int) bool {
		return p.MarginMode == model.MarginModeTypeCross
	}), func(p model.Position) decimal.Decimal { return p.Margin })
	marginIsolated := calc.SumBy(lo.Filter(open, func(p model.Position, _ int) bool {
		return p.MarginMode == model.MarginModeTypeIsolated
	}), func(p model.Position) decimal.Decimal { return p.Margin })

	openFee := calc.SumBy(l.positions, func(p model.Position) decimal.Decimal { return p.OpenFee })
	closeFee := calc.SumBy(closed, func(p model.Position) decimal.Decimal { return p.CloseFee })
	unrealized := calc.SumBy(open, func(p model.Position) decimal.Decimal { return p.UnrealizedPnl })
	realized := calc.SumBy(closed, func(p model.Position) decimal.Decimal { return p.RealizedPnl })

	totalMargin := marginCross.Add(marginIsolated)
	available := l.account.Balance.Sub(totalMargin)

	return model.AccountSummary{
		TotalMarginCross:    marginCross,
		TotalMarginIsolated: marginIsolated,
		TotalMargin:         totalMargin,
		TotalOpenFee:        openFee,
		TotalCloseFee:       closeFee,
		TotalFee:            openFee.Add(closeFee),
		TotalUnrealizedPnl:  unrealized,
		TotalRealizedPnl:    realized,
		AvailableBalance:    available,
		TransferableBalance: available.Add(calc.Min(decimal.Zero, unrealized)),
	}
}
