package serv

import (
	"contractsim/api/middlewares"
	"contractsim/api/routes"
	"contractsim/service"
	"contractsim/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/recover"
	"github.com/spf13/viper"
)

// StartHttpServer serves the REST API. It blocks until the listener stops.
func StartHttpServer(simulator *service.Simulator) {
	app := iris.New()
	app.Logger().SetLevel(viper.GetString("log.level"))
	app.Use(middlewares.CorsNew())
	app.Use(recover.New())
	routes.ApiRoutes(app, simulator)

	cfg := iris.DefaultConfiguration()
	err := viper.Unmarshal(&cfg)
	if err != nil {
		utils.Log.Errorf("unmarshal config failed: %s", err.Error())
	}
	err = app.Run(iris.Addr(viper.GetString("listen.http")), iris.WithConfiguration(cfg))
	if err != nil {
		utils.Log.Errorf(err.Error())
	}
}
