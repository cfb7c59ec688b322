package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"contractsim/feed"
	"contractsim/ledger"
	"contractsim/model"
	"contractsim/serv"
	"contractsim/service"
	"contractsim/storage"
	"contractsim/utils"
	"contractsim/utils/config"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

func main() {
	var (
		initialBalance = viper.GetFloat64("account.initialBalance")
		feeRate        = viper.GetString("risk.feeRate")
		mmRate         = viper.GetString("risk.maintenanceMarginRate")
		feedEnabled    = viper.GetBool("feed.enabled")
		feedInterval   = viper.GetString("feed.interval")
		contractsPath  = viper.GetString("contracts.path")
		storagePath    = viper.GetString("storage.path")
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params := model.RiskParams{
		FeeRate:               mustDecimal(feeRate, "0.0004"),
		MaintenanceMarginRate: mustDecimal(mmRate, "0.005"),
	}
	if initialBalance == 0 {
		initialBalance = 1000
	}

	accountLedger := ledger.New(
		decimal.NewFromFloat(initialBalance),
		params,
		ledger.WithTracer(service.LogTracer()),
	)

	options := []service.Option{}

	if storagePath != "" {
		dir := filepath.Dir(storagePath)
		if _, err := os.Stat(dir); err != nil {
			if err = os.MkdirAll(dir, os.ModePerm); err != nil {
				utils.Log.Panicf("mkdir error : %s", err.Error())
			}
		}
		st, err := storage.FromSQL(sqlite.Open(storagePath))
		if err != nil {
			log.Fatal(err)
		}
		options = append(options, service.WithStorage(st))
	}

	if contractsPath != "" {
		catalogue, err := feed.LoadCatalogue(contractsPath)
		if err != nil {
			utils.Log.Fatalf("error with load contracts file:%s", err.Error())
		}
		options = append(options, service.WithCatalogue(catalogue))
	}

	if feedEnabled {
		interval := 5 * time.Second
		if feedInterval != "" {
			parsed, err := str2duration.ParseDuration(feedInterval)
			if err != nil {
				utils.Log.Fatalf("invalid feed interval %q: %s", feedInterval, err.Error())
			}
			interval = parsed
		}

		feederOptions := []feed.BinanceFutureOption{
			feed.WithBinanceFutureCredentials(
				viper.GetString("api.key"),
				viper.GetString("api.secret"),
			),
		}
		if viper.GetString("mode") == "test" {
			feederOptions = append(feederOptions, feed.WithBinanceFutureTestnet())
		}
		feeder, err := feed.NewBinanceFuture(ctx, feederOptions...)
		if err != nil {
			utils.Log.Fatal(err)
		}

		priceFeed := feed.NewPriceFeed(feeder, interval)
		if historyPath := viper.GetString("feed.historyPath"); historyPath != "" {
			history, err := feed.NewHistory(historyPath)
			if err != nil {
				utils.Log.Fatal(err)
			}
			defer history.Close()
			priceFeed.WithHistory(history)
		}
		options = append(options, service.WithPriceFeed(priceFeed))
	}

	simulator := service.NewSimulator(accountLedger, options...)
	if err := simulator.Start(ctx); err != nil {
		utils.Log.Fatalln(err)
	}

	// Fee and maintenance rates follow live config edits.
	config.WatchConf(func() {
		simulator.SetRiskParams(model.RiskParams{
			FeeRate:               mustDecimal(viper.GetString("risk.feeRate"), "0.0004"),
			MaintenanceMarginRate: mustDecimal(viper.GetString("risk.maintenanceMarginRate"), "0.005"),
		})
	})

	serv.StartHttpServer(simulator)
}

func mustDecimal(value, fallback string) decimal.Decimal {
	if value == "" {
		value = fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		log.Fatalf("invalid decimal %q: %s", value, err.Error())
	}
	return d
}
