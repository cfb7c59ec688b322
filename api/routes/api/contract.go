package api

import (
	"contractsim/api/controllers"
	"contractsim/service"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func ContractRoutes(app router.Party, simulator *service.Simulator) {
	c := controllers.ContractController{Simulator: simulator}

	app.Get("/list", func(ctx iris.Context) {
		_ = c.List(ctx)
	})
}
