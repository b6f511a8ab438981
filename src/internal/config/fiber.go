package config

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"booking-service/src/pkg/utils"
)

func NewFiber(config *viper.Viper) *fiber.App {
	var app = fiber.New(fiber.Config{
		AppName:      config.GetString("app.name"),
		ErrorHandler: NewErrorHandler(),
		Prefork:      config.GetBool("web.prefork"),
	})

	return app
}

// NewErrorHandler keeps unhandled fiber errors inside the standard response
// envelope instead of fiber's default plain-text body.
func NewErrorHandler() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(utils.HTTPResponse{
				Success: false,
				Message: fiberErr.Message,
			})
		}
		return utils.ResponseError(err, ctx)
	}
}
