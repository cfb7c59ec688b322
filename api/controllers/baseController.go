package controllers

import (
	"github.com/kataras/iris/v12"
)

type BaseController struct{}

func (c *BaseController) Success(ctx iris.Context, data interface{}) error {
	payload := map[string]interface{}{
		"code":    "0",
		"message": "success",
	}
	if data != nil {
		payload["data"] = data
	}
	return ctx.JSON(payload)
}

func (c *BaseController) Fail(ctx iris.Context, code string, message string) error {
	return ctx.JSON(map[string]interface{}{
		"code":    code,
		"message": message,
	})
}
