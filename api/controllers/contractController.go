package controllers

import (
	"contractsim/service"

	"github.com/kataras/iris/v12"
)

type ContractController struct {
	BaseController
	Simulator *service.Simulator
}

func (c *ContractController) List(ctx iris.Context) error {
	return c.Success(ctx, c.Simulator.Contracts())
}
