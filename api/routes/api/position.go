package api

import (
	"contractsim/api/controllers"
	"contractsim/service"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/core/router"
)

func PositionRoutes(app router.Party, simulator *service.Simulator) {
	c := controllers.PositionController{Simulator: simulator}

	app.Get("/list", func(ctx iris.Context) {
		_ = c.List(ctx)
	})
	app.Get("/detail", func(ctx iris.Context) {
		_ = c.Get(ctx)
	})
	app.Post("/open", func(ctx iris.Context) {
		_ = c.Open(ctx)
	})
	app.Post("/close", func(ctx iris.Context) {
		_ = c.Close(ctx)
	})
	app.Delete("/delete", func(ctx iris.Context) {
		_ = c.Delete(ctx)
	})
}
