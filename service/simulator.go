package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"contractsim/feed"
	"contractsim/ledger"
	"contractsim/model"
	"contractsim/storage"
	"contractsim/utils"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// Simulator wires the account ledger to the price feed and the persistence
// layer. Every mark tick flows into the ledger, every ledger mutation flows
// back out to storage.
type Simulator struct {
	mu         sync.Mutex
	ledger     *ledger.Ledger
	feed       *feed.PriceFeedSubscription
	storage    storage.Storage
	catalogue  *feed.Catalogue
	subscribed map[string]bool
}

type Option func(*Simulator)

func WithStorage(st storage.Storage) Option {
	return func(s *Simulator) {
		s.storage = st
	}
}

func WithPriceFeed(priceFeed *feed.PriceFeedSubscription) Option {
	return func(s *Simulator) {
		s.feed = priceFeed
	}
}

func WithCatalogue(catalogue *feed.Catalogue) Option {
	return func(s *Simulator) {
		s.catalogue = catalogue
	}
}

func NewSimulator(accountLedger *ledger.Ledger, options ...Option) *Simulator {
	simulator := &Simulator{
		ledger:     accountLedger,
		subscribed: make(map[string]bool),
	}
	for _, option := range options {
		option(simulator)
	}
	return simulator
}

// Start restores persisted state, resubscribes the feed for every open
// position and begins polling. It returns once the feed goroutine is running.
func (s *Simulator) Start(ctx context.Context) error {
	if err := s.restore(); err != nil {
		return err
	}

	if s.feed == nil {
		utils.Log.Info("[SETUP] No price feed configured, marks are manual")
		return nil
	}

	for _, position := range s.ledger.Positions() {
		if position.IsOpen() {
			s.subscribe(position.Symbol)
		}
	}

	go s.feed.Start(ctx)
	return nil
}

func (s *Simulator) restore() error {
	if s.storage == nil {
		return nil
	}

	account, err := s.storage.Account()
	if err != nil {
		return fmt.Errorf("restore account: %w", err)
	}
	if account == nil {
		return nil
	}

	persisted, err := s.storage.Positions()
	if err != nil {
		return fmt.Errorf("restore positions: %w", err)
	}
	positions := make([]model.Position, 0, len(persisted))
	for _, position := range persisted {
		positions = append(positions, *position)
	}

	s.ledger.Restore(*account, positions)
	utils.Log.Infof("[SETUP] Restored %d positions, balance %s",
		len(positions), account.Balance)
	return nil
}

func (s *Simulator) subscribe(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feed == nil || s.subscribed[symbol] {
		return
	}
	s.subscribed[symbol] = true
	s.feed.Subscribe(symbol, s.onTick)
}

func (s *Simulator) onTick(tick feed.Tick) {
	s.ledger.SetMarkPrice(tick.Symbol, tick.Price)
	s.persistPositions()
	s.persistAccount()
}

// OpenPosition fills contract terms from the catalogue when the request
// leaves them blank, opens the position and subscribes its symbol.
func (s *Simulator) OpenPosition(request ledger.OpenRequest) (model.Position, error) {
	if s.catalogue != nil {
		contract, ok := s.catalogue.Find(request.Symbol)
		if ok {
			if request.ContractSize.IsZero() {
				request.ContractSize = contract.ContractSize
			}
			if request.Leverage.IsZero() {
				request.Leverage = decimal.NewFromInt(int64(contract.InitLeverage))
			}
		}
	}

	position, err := s.ledger.OpenPosition(request)
	if err != nil {
		return model.Position{}, err
	}

	s.subscribe(position.Symbol)
	if s.storage != nil {
		if err := s.storage.CreatePosition(&position); err != nil {
			utils.Log.Errorf("persist position %s: %v", position.PositionCode, err)
		}
	}
	s.persistAccount()
	utils.Log.Infof("[OPEN] %s %s %s @ %s, margin %s",
		position.Symbol, position.Direction, position.Quantity,
		position.EntryPrice, position.Margin)
	return position, nil
}

func (s *Simulator) ClosePosition(code string, closePrice decimal.Decimal) (model.Position, error) {
	position, err := s.ledger.ClosePosition(code, closePrice)
	if err != nil {
		return model.Position{}, err
	}

	s.persistPositions()
	s.persistAccount()
	utils.Log.Infof("[CLOSE] %s %s @ %s, realized %s",
		position.Symbol, position.Direction, position.ClosePrice, position.RealizedPnl)
	return position, nil
}

// ClosePositionAtMark settles against the position's current mark price.
func (s *Simulator) ClosePositionAtMark(code string) (model.Position, error) {
	position, err := s.ledger.Position(code)
	if err != nil {
		return model.Position{}, err
	}
	if !position.MarkPrice.IsPositive() {
		return model.Position{}, errors.New("no mark price available")
	}
	return s.ClosePosition(code, position.MarkPrice)
}

func (s *Simulator) DeletePosition(code string) error {
	position, err := s.ledger.Position(code)
	if err != nil {
		return err
	}
	if err := s.ledger.DeletePosition(code); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeletePosition(&position); err != nil {
			utils.Log.Errorf("delete position %s: %v", code, err)
		}
	}
	s.persistPositions()
	s.persistAccount()
	return nil
}

func (s *Simulator) Deposit(amount decimal.Decimal) error {
	if err := s.ledger.Deposit(amount); err != nil {
		return err
	}
	s.persistPositions()
	s.persistAccount()
	return nil
}

func (s *Simulator) Withdraw(amount decimal.Decimal) error {
	if err := s.ledger.Withdraw(amount); err != nil {
		return err
	}
	s.persistPositions()
	s.persistAccount()
	return nil
}

func (s *Simulator) ResetBalance() {
	s.ledger.ResetBalance()
	s.persistPositions()
	s.persistAccount()
}

func (s *Simulator) SetRiskParams(params model.RiskParams) {
	s.ledger.SetRiskParams(params)
	s.persistPositions()
}

func (s *Simulator) SetMarkPrice(symbol string, price decimal.Decimal) {
	s.ledger.SetMarkPrice(symbol, price)
	s.persistPositions()
}

func (s *Simulator) Positions() []model.Position {
	return s.ledger.Positions()
}

func (s *Simulator) Position(code string) (model.Position, error) {
	return s.ledger.Position(code)
}

func (s *Simulator) Account() model.Account {
	return s.ledger.Account()
}

func (s *Simulator) AccountSummary() model.AccountSummary {
	return s.ledger.Summary()
}

func (s *Simulator) Contracts() []model.Contract {
	if s.catalogue == nil {
		return nil
	}
	return s.catalogue.Contracts()
}

func (s *Simulator) persistPositions() {
	if s.storage == nil {
		return
	}
	for _, position := range s.ledger.Positions() {
		pos := position
		if err := s.storage.UpdatePosition(&pos); err != nil {
			utils.Log.Errorf("persist position %s: %v", pos.PositionCode, err)
		}
	}
}

func (s *Simulator) persistAccount() {
	if s.storage == nil {
		return
	}
	account := s.ledger.Account()
	if err := s.storage.SaveAccount(&account); err != nil {
		utils.Log.Errorf("persist account: %v", err)
	}
}

// Summary renders the open book and the account totals to stdout.
func (s *Simulator) Summary() {
	positions := s.ledger.Positions()
	summary := s.ledger.Summary()
	account := s.ledger.Account()

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Code", "Symbol", "Side", "Mode", "Qty", "Entry", "Mark", "Margin", "uPnL", "DEX", "Liq. Price"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	for _, position := range positions {
		if !position.IsOpen() {
			continue
		}
		dex, liquidation := "-", "-"
		if position.HasLiquidation {
			dex = position.Dex.StringFixed(4)
			liquidation = position.LiquidationPrice.StringFixed(4)
		}
		table.Append([]string{
			position.PositionCode,
			position.Symbol,
			string(position.Direction),
			string(position.MarginMode),
			position.Quantity.String(),
			position.EntryPrice.String(),
			position.MarkPrice.String(),
			position.Margin.StringFixed(4),
			position.UnrealizedPnl.StringFixed(4),
			dex,
			liquidation,
		})
	}
	table.SetFooter([]string{
		"TOTAL", "", "", "",
		"", "", "",
		summary.TotalMargin.StringFixed(4),
		summary.TotalUnrealizedPnl.StringFixed(4),
		"", "",
	})
	table.Render()

	fmt.Println(buffer.String())
	fmt.Printf("Balance: %s | Available: %s | Transferable: %s | Realized: %s | Fees: %s\n",
		account.Balance.StringFixed(4),
		summary.AvailableBalance.StringFixed(4),
		summary.TransferableBalance.StringFixed(4),
		summary.TotalRealizedPnl.StringFixed(4),
		summary.TotalFee.StringFixed(4),
	)
}
