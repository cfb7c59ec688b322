package routes

import (
	"contractsim/api/routes/api"
	"contractsim/service"

	"github.com/kataras/iris/v12"
)

func ApiRoutes(app *iris.Application, simulator *service.Simulator) {
	api.BaseRoutes(app)
	api.PprofRoutes(app)

	healthRoutes := app.Party("/health")
	{
		api.HealthRoutes(healthRoutes)
	}
	positionRoutes := app.Party("/v1/position")
	{
		api.PositionRoutes(positionRoutes, simulator)
	}
	accountRoutes := app.Party("/v1/account")
	{
		api.AccountRoutes(accountRoutes, simulator)
	}
	contractRoutes := app.Party("/v1/contract")
	{
		api.ContractRoutes(contractRoutes, simulator)
	}
}
