package controllers

import (
	"errors"

	"contractsim/ledger"
	"contractsim/service"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type PositionController struct {
	BaseController
	Simulator *service.Simulator
}

// Open creates a position from the request body. Contract size and leverage
// fall back to the catalogue defaults when omitted.
func (c *PositionController) Open(ctx iris.Context) error {
	var request ledger.OpenRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}

	position, err := c.Simulator.OpenPosition(request)
	if err != nil {
		return c.Fail(ctx, "10401", err.Error())
	}
	return c.Success(ctx, position)
}

type closeRequest struct {
	PositionCode string          `json:"position_code"`
	ClosePrice   decimal.Decimal `json:"close_price"`
}

// Close settles a position. Without a close price it settles at the current
// mark.
func (c *PositionController) Close(ctx iris.Context) error {
	var request closeRequest
	if err := ctx.ReadJSON(&request); err != nil {
		return c.Fail(ctx, "10400", err.Error())
	}
	if request.PositionCode == "" {
		return c.Fail(ctx, "10400", "please set position_code")
	}

	var err error
	var position interface{}
	if request.ClosePrice.IsPositive() {
		position, err = c.Simulator.ClosePosition(request.PositionCode, request.ClosePrice)
	} else {
		position, err = c.Simulator.ClosePositionAtMark(request.PositionCode)
	}
	if err != nil {
		return c.Fail(ctx, failCode(err), err.Error())
	}
	return c.Success(ctx, position)
}

func (c *PositionController) Delete(ctx iris.Context) error {
	code := ctx.URLParamTrim("position_code")
	if code == "" {
		return c.Fail(ctx, "10400", "please set position_code")
	}

	if err := c.Simulator.DeletePosition(code); err != nil {
		return c.Fail(ctx, failCode(err), err.Error())
	}
	return c.Success(ctx, nil)
}

func (c *PositionController) List(ctx iris.Context) error {
	return c.Success(ctx, c.Simulator.Positions())
}

func (c *PositionController) Get(ctx iris.Context) error {
	code := ctx.URLParamTrim("position_code")
	if code == "" {
		return c.Fail(ctx, "10400", "please set position_code")
	}

	position, err := c.Simulator.Position(code)
	if err != nil {
		return c.Fail(ctx, failCode(err), err.Error())
	}
	return c.Success(ctx, position)
}

func failCode(err error) string {
	switch {
	case errors.Is(err, ledger.ErrPositionNotFound):
		return "10404"
	case errors.Is(err, ledger.ErrPositionClosed):
		return "10409"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "10402"
	default:
		return "10401"
	}
}
