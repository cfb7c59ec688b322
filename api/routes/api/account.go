package api

import (
	"contractsim/api/controllers"
	"contractsim/service"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func AccountRoutes(app router.Party, simulator *service.Simulator) {
	c := controllers.AccountController{Simulator: simulator}

	app.Get("/summary", func(ctx iris.Context) {
		_ = c.Get(ctx)
	})
	app.Post("/deposit", func(ctx iris.Context) {
		_ = c.Deposit(ctx)
	})
	app.Post("/withdraw", func(ctx iris.Context) {
		_ = c.Withdraw(ctx)
	})
	app.Post("/reset", func(ctx iris.Context) {
		_ = c.Reset(ctx)
	})
	app.Post("/params", func(ctx iris.Context) {
		_ = c.SetParams(ctx)
	})
	app.Post("/mark", func(ctx iris.Context) {
		_ = c.SetMark(ctx)
	})
}
