package route

import (
	"booking-service/src/internal/delivery/http"
	"booking-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteConfig struct {
	App               *fiber.App
	BookingController *http.BookingController
	CallController    *http.CallController
	WalletController  *http.WalletController
	ServiceController *http.ServiceController
	AuthMiddleware    fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	bookings := c.App.Group("/bookings/v1")
	bookings.Post("/", c.BookingController.Create)
	bookings.Get("/", c.BookingController.List)
	bookings.Post("/confirm-by-token", c.BookingController.ConfirmByToken)
	bookings.Get("/:bookingId", c.BookingController.Detail)
	bookings.Delete("/:bookingId", c.BookingController.Delete)
	bookings.Post("/:bookingId/accept", c.BookingController.Accept)
	bookings.Post("/:bookingId/reject", c.BookingController.Reject)
	bookings.Post("/:bookingId/cancel", c.BookingController.Cancel)
	bookings.Post("/:bookingId/checkin", c.BookingController.CheckIn)
	bookings.Post("/:bookingId/complete", c.BookingController.Complete)
	bookings.Post("/:bookingId/confirm", c.BookingController.Confirm)
	bookings.Post("/:bookingId/dispute", c.BookingController.Dispute)

	calls := c.App.Group("/calls/v1")
	calls.Post("/", c.CallController.Create)
	calls.Post("/:bookingId/initiate", c.CallController.Initiate)
	calls.Post("/:bookingId/accept", c.CallController.Accept)
	calls.Post("/:bookingId/start", c.CallController.StartTimer)
	calls.Post("/:bookingId/heartbeat", c.CallController.Heartbeat)
	calls.Post("/:bookingId/end", c.CallController.End)
	calls.Post("/:bookingId/missed", c.CallController.Missed)
	calls.Post("/:bookingId/decline", c.CallController.Decline)
	calls.Post("/:bookingId/cancel", c.CallController.Cancel)

	wallets := c.App.Group("/wallets/v1")
	wallets.Get("/balance", c.WalletController.Balance)
	wallets.Post("/recharge", c.WalletController.Recharge)
	wallets.Get("/history", c.WalletController.History)

	services := c.App.Group("/services/v1")
	services.Post("/", c.ServiceController.Create)
	services.Get("/", c.ServiceController.List)
}
