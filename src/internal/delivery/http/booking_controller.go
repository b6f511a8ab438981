package http

import (
	"booking-service/src/internal/delivery/http/middleware"
	"booking-service/src/internal/model"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	Log     log.Log
	UseCase *usecase.BookingUseCase
}

func NewBookingController(useCase *usecase.BookingUseCase, logger log.Log) *BookingController {
	return &BookingController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *BookingController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	response, err := c.UseCase.Create(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Created", fiber.StatusCreated, ctx)
}

func (c *BookingController) Accept(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Accept(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Accepted", fiber.StatusOK, ctx)
}

func (c *BookingController) Reject(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.RejectBookingRequest)
	if err := ctx.BodyParser(request); err != nil && err != fiber.ErrUnprocessableEntity {
		c.Log.Error("BookingController.Reject", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID
	request.BookingID = ctx.Params("bookingId")

	response, err := c.UseCase.Reject(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Rejected", fiber.StatusOK, ctx)
}

func (c *BookingController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CancelBookingRequest)
	if err := ctx.BodyParser(request); err != nil && err != fiber.ErrUnprocessableEntity {
		c.Log.Error("BookingController.Cancel", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID
	request.BookingID = ctx.Params("bookingId")

	response, err := c.UseCase.Cancel(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Cancelled", fiber.StatusOK, ctx)
}

func (c *BookingController) CheckIn(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CheckinRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.CheckIn", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID
	request.BookingID = ctx.Params("bookingId")

	response, err := c.UseCase.CheckIn(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Checked In", fiber.StatusOK, ctx)
}

func (c *BookingController) Complete(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Complete(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Completed", fiber.StatusOK, ctx)
}

func (c *BookingController) Confirm(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Confirm(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Confirmed", fiber.StatusOK, ctx)
}

func (c *BookingController) ConfirmByToken(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.ConfirmByTokenRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.ConfirmByToken", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	response, err := c.UseCase.ConfirmByToken(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Confirmed", fiber.StatusOK, ctx)
}

func (c *BookingController) Dispute(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.DisputeBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Dispute", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID
	request.BookingID = ctx.Params("bookingId")

	response, err := c.UseCase.Dispute(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Disputed", fiber.StatusOK, ctx)
}

func (c *BookingController) Detail(ctx *fiber.Ctx) error {
	response, err := c.UseCase.Detail(ctx.Context(), c.actionRequest(ctx))
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking Detail", fiber.StatusOK, ctx)
}

func (c *BookingController) List(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.ListBookingsRequest{
		UserID: auth.UserID,
		Role:   ctx.Query("role"),
		Status: ctx.Query("status"),
		Limit:  ctx.QueryInt("limit"),
		Offset: ctx.QueryInt("offset"),
	}

	response, err := c.UseCase.List(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Booking List", fiber.StatusOK, ctx)
}

func (c *BookingController) Delete(ctx *fiber.Ctx) error {
	if err := c.UseCase.Delete(ctx.Context(), c.actionRequest(ctx)); err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(nil, "Booking Deleted", fiber.StatusOK, ctx)
}

func (c *BookingController) actionRequest(ctx *fiber.Ctx) *model.BookingActionRequest {
	auth := middleware.GetUser(ctx)
	return &model.BookingActionRequest{
		UserID:    auth.UserID,
		BookingID: ctx.Params("bookingId"),
	}
}
