package http

import (
	"booking-service/src/internal/delivery/http/middleware"
	"booking-service/src/internal/model"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type CallController struct {
	Log     log.Log
	UseCase *usecase.CallUseCase
}

func NewCallController(useCase *usecase.CallUseCase, logger log.Log) *CallController {
	return &CallController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *CallController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateCallBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("CallController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	response, err := c.UseCase.Create(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Booking Created", fiber.StatusCreated, ctx)
}

func (c *CallController) Initiate(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Initiate(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Ringing", fiber.StatusOK, ctx)
}

func (c *CallController) Accept(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Accept(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Accepted", fiber.StatusOK, ctx)
}

func (c *CallController) StartTimer(ctx *fiber.Ctx) error {
	response, err := c.UseCase.StartTimer(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Started", fiber.StatusOK, ctx)
}

func (c *CallController) Heartbeat(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Heartbeat(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Heartbeat", fiber.StatusOK, ctx)
}

func (c *CallController) End(ctx *fiber.Ctx) error {
	response, err := c.UseCase.End(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Ended", fiber.StatusOK, ctx)
}

func (c *CallController) Missed(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Missed(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Missed", fiber.StatusOK, ctx)
}

func (c *CallController) Decline(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Decline(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Declined", fiber.StatusOK, ctx)
}

func (c *CallController) Cancel(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Cancel(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Call Cancelled", fiber.StatusOK, ctx)
}

func (c *CallController) actionRequest(ctx *fiber.Ctx) *model.CallActionRequest {
	auth := middleware.GetUser(ctx)
	return &model.CallActionRequest{
		UserID:    auth.UserID,
		BookingID: ctx.Params("bookingId"),
	}
}
