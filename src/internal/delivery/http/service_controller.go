package http

import (
	"booking-service/src/internal/delivery/http/middleware"
	"booking-service/src/internal/model"
	"booking-service/src/internal/usecase"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ServiceController struct {
	Log     log.Log
	UseCase *usecase.ServiceUseCase
}

func NewServiceController(useCase *usecase.ServiceUseCase, logger log.Log) *ServiceController {
	return &ServiceController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *ServiceController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)
	request := new(model.CreateServiceRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("ServiceController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.UserID = auth.UserID

	response, err := c.UseCase.Create(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Service Created", fiber.StatusCreated, ctx)
}

func (c *ServiceController) List(ctx *fiber.Ctx) error {
	request := &model.ListServicesRequest{
		ProviderID: ctx.Query("providerId"),
		Kind:       ctx.Query("kind"),
		Limit:      ctx.QueryInt("limit"),
		Offset:     ctx.QueryInt("offset"),
	}

	response, err := c.UseCase.List(ctx.Context(), request)
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	return utils.Response(response, "Service List", fiber.StatusOK, ctx)
}
