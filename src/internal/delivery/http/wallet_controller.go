package http

import (
	"booking-service/src/internal/delivery/http/middleware"
	"booking-service/src/internal/model"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletController struct {
	Log     log.Log
	UseCase *usecase.WalletUseCase
}

func NewWalletController(useCase *usecase.WalletUseCase, logger log.Log) *WalletController {
	return &WalletController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *WalletController) Balance(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.WalletBalanceRequest{UserID: auth.UserID}

	response, err := c.UseCase.Balance(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Wallet Balance", fiber.StatusOK, ctx)
}

func (c *WalletController) Recharge(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.RechargeRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("WalletController.Recharge", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	response, err := c.UseCase.Recharge(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Wallet Recharged", fiber.StatusOK, ctx)
}

func (c *WalletController) History(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := &model.WalletHistoryRequest{
		UserID: auth.UserID,
		Limit:  ctx.QueryInt("limit"),
		Offset: ctx.QueryInt("offset"),
	}

	response, err := c.UseCase.History(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Wallet History", fiber.StatusOK, ctx)
}
