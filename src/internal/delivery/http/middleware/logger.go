package middleware

import (
	"fmt"
	"time"

	"booking-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// NewLogger logs every request through the application logger.
func NewLogger() fiber.Handler {
	appLog := log.GetLogger()
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		appLog.Info("http",
			fmt.Sprintf("%s %s -> %d in %s", ctx.Method(), ctx.Path(), ctx.Response().StatusCode(), time.Since(start)),
			"request", ctx.IP())
		return err
	}
}
