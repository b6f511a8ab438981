package usecase

import (
	"context"
	"fmt"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
	"booking-service/src/internal/model/converter"
	"booking-service/src/internal/repository"
	httpError "booking-service/src/pkg/http-error"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type ServiceUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	ServiceRepository repository.ServiceStore
	UserRepository    repository.UserStore
	Config            *viper.Viper
	Now               func() time.Time
}

func NewServiceUseCase(
	logger log.Log,
	validate *validator.Validate,
	serviceRepository repository.ServiceStore,
	userRepository repository.UserStore,
	cfg *viper.Viper,
) *ServiceUseCase {
	return &ServiceUseCase{
		Log:               logger,
		Validate:          validate,
		ServiceRepository: serviceRepository,
		UserRepository:    userRepository,
		Config:            cfg,
		Now:               time.Now,
	}
}

func (c *ServiceUseCase) Create(ctx context.Context, request *model.CreateServiceRequest) (*model.ServiceResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("service-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}

	user, err := c.UserRepository.FindByID(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("user %s not found", request.UserID)
		c.Log.Error("service-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}
	if !user.IsProvider {
		errObj := httpError.NewForbidden()
		errObj.Message = "only providers can publish services"
		c.Log.Error("service-usecase", errObj.Message, "Create", request.UserID)
		return nil, errObj
	}

	switch request.Kind {
	case entity.ServiceKindDate:
		if request.Price <= 0 {
			errObj := httpError.NewBadRequest()
			errObj.Message = "date services need a positive price"
			return nil, errObj
		}
	case entity.ServiceKindCall:
		if request.PerMinuteRate <= 0 {
			errObj := httpError.NewBadRequest()
			errObj.Message = "call services need a positive per-minute rate"
			return nil, errObj
		}
	}

	now := c.Now().UTC()
	service := &entity.ServiceOffering{
		ID:              uuid.NewString(),
		ProviderID:      request.UserID,
		Title:           request.Title,
		Description:     request.Description,
		Kind:            request.Kind,
		Price:           request.Price,
		PerMinuteRate:   request.PerMinuteRate,
		CommissionRate:  c.Config.GetInt64("booking.commission_rate_pct"),
		DurationMinutes: request.DurationMinutes,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.ServiceRepository.Create(ctx, service); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to create service"
		c.Log.Error("service-usecase", fmt.Sprintf("Error create service: %v", err), "Create", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.ServiceToResponse(service), nil
}

func (c *ServiceUseCase) List(ctx context.Context, request *model.ListServicesRequest) ([]model.ServiceResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("service-usecase", errObj.Message, "List", utils.ConvertString(err))
		return nil, errObj
	}

	limit := request.Limit
	if limit == 0 {
		limit = 20
	}

	services, err := c.ServiceRepository.List(ctx, request.ProviderID, request.Kind, limit, request.Offset)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list services"
		c.Log.Error("service-usecase", fmt.Sprintf("Error list services: %v", err), "List", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.ServicesToResponse(services), nil
}
