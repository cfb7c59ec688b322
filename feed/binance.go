package feed

import (
	"context"
	"fmt"
	"strings"

	"contractsim/utils"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// BinanceFuture serves live mark prices from the Binance USDT-M futures API.
type BinanceFuture struct {
	ctx       context.Context
	client    *futures.Client
	APIKey    string
	APISecret string
	Testnet   bool
}

type BinanceFutureOption func(*BinanceFuture)

func WithBinanceFutureCredentials(key, secret string) BinanceFutureOption {
	return func(b *BinanceFuture) {
		b.APIKey = key
		b.APISecret = secret
	}
}

func WithBinanceFutureTestnet() BinanceFutureOption {
	return func(b *BinanceFuture) {
		b.Testnet = true
	}
}

func NewBinanceFuture(ctx context.Context, options ...BinanceFutureOption) (*BinanceFuture, error) {
	exchange := &BinanceFuture{ctx: ctx}
	for _, option := range options {
		option(exchange)
	}

	futures.UseTestnet = exchange.Testnet
	exchange.client = futures.NewClient(exchange.APIKey, exchange.APISecret)

	err := exchange.client.NewPingService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance ping fail: %w", err)
	}

	utils.Log.Info("[SETUP] Using Binance Futures price feed")
	return exchange, nil
}

// LastPrice returns the current mark price. Symbols use the local form
// "btc_usdt" and are mapped to the exchange form "BTCUSDT".
func (b *BinanceFuture) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	results, err := b.client.NewPremiumIndexService().Symbol(exchangeSymbol(symbol)).Do(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if len(results) == 0 {
		return decimal.Zero, fmt.Errorf("no mark price for %s", symbol)
	}
	return decimal.NewFromString(results[0].MarkPrice)
}

func exchangeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "_", ""))
}
