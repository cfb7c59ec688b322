package controllers

import (
	"contractsim/model"
	"contractsim/service"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type AccountController struct {
	BaseController
	Simulator *service.Simulator
}

func (c *AccountController) Get(ctx iris.Context) error {
	return c.Success(ctx, map[string]interface{}{
		"account": c.Simulator.Account(),
		"summary": c.Simulator.AccountSummary(),
	})
}

type transferRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *AccountController) Deposit(ctx iris.Context) error {
	var request transferRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}

	if err := c.Simulator.Deposit(request.Amount); err != nil {
		return c.Fail(ctx, failCode(err), err.Error())
	}
	return c.Success(ctx, c.Simulator.Account())
}

func (c *AccountController) Withdraw(ctx iris.Context) error {
	var request transferRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}

	if err := c.Simulator.Withdraw(request.Amount); err != nil {
		return c.Fail(ctx, failCode(err), err.Error())
	}
	return c.Success(ctx, c.Simulator.Account())
}

func (c *AccountController) Reset(ctx iris.Context) error {
	c.Simulator.ResetBalance()
	return c.Success(ctx, c.Simulator.Account())
}

type riskParamsRequest struct {
	MarkPrice             decimal.Decimal `json:"mark_price"`
	FeeRate               decimal.Decimal `json:"fee_rate"`
	MaintenanceMarginRate decimal.Decimal `json:"maintenance_margin_rate"`
}

// SetParams replaces the global fee and maintenance rates and refreshes
// every derived figure.
func (c *AccountController) SetParams(ctx iris.Context) error {
	var request riskParamsRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}

	c.Simulator.SetRiskParams(model.RiskParams{
		MarkPrice:             request.MarkPrice,
		FeeRate:               request.FeeRate,
		MaintenanceMarginRate: request.MaintenanceMarginRate,
	})
	return c.Success(ctx, c.Simulator.AccountSummary())
}

type markRequest struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// SetMark records a manual mark price for a symbol.
func (c *AccountController) SetMark(ctx iris.Context) error {
	var request markRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}
	if request.Symbol == "" || !request.Price.IsPositive() {
		return c.Fail(ctx, "10400", "please set symbol and a positive price")
	}

	c.Simulator.SetMarkPrice(request.Symbol, request.Price)
	return c.Success(ctx, nil)
}
