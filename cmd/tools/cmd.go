package main

import (
	"errors"
	"log"
	"os"

	"contractsim/ledger"
	"contractsim/model"
	"contractsim/service"
	"contractsim/storage"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

func openStorage(path string) (storage.Storage, error) {
	if path == "" {
		path = viper.GetString("storage.path")
	}
	if path == "" {
		return nil, errors.New("no storage path, set --db or storage.path")
	}
	return storage.FromSQL(sqlite.Open(path))
}

func main() {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "eg. ./data/simulator.db",
	}

	app := &cli.App{
		Name:     "contractsim",
		HelpName: "contractsim",
		Usage:    "Utilities for the contract simulator",
		Commands: []*cli.Command{
			{
				Name:     "summary",
				HelpName: "summary",
				Usage:    "Print the persisted account book",
				Flags:    []cli.Flag{dbFlag},
				Action: func(c *cli.Context) error {
					st, err := openStorage(c.String("db"))
					if err != nil {
						return err
					}

					accountLedger := ledger.New(decimal.NewFromInt(0), model.RiskParams{
						FeeRate:               decimal.RequireFromString("0.0004"),
						MaintenanceMarginRate: decimal.RequireFromString("0.005"),
					})
					simulator := service.NewSimulator(accountLedger, service.WithStorage(st))
					if err := simulator.Start(c.Context); err != nil {
						return err
					}
					simulator.Summary()
					return nil
				},
			},
			{
				Name:     "reset",
				HelpName: "reset",
				Usage:    "Drop and recreate the persisted tables",
				Flags:    []cli.Flag{dbFlag},
				Action: func(c *cli.Context) error {
					st, err := openStorage(c.String("db"))
					if err != nil {
						return err
					}
					sqlStorage, ok := st.(interface{ ResetTables() error })
					if !ok {
						return errors.New("storage does not support reset")
					}
					return sqlStorage.ResetTables()
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
