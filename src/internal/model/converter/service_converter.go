package converter

import (
	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
)

func ServiceToResponse(service *entity.ServiceOffering) *model.ServiceResponse {
	return &model.ServiceResponse{
		ID:              service.ID,
		ProviderID:      service.ProviderID,
		Title:           service.Title,
		Description:     service.Description,
		Kind:            service.Kind,
		Price:           service.Price,
		PerMinuteRate:   service.PerMinuteRate,
		CommissionRate:  service.CommissionRate,
		DurationMinutes: service.DurationMinutes,
		Active:          service.Active,
		CreatedAt:       service.CreatedAt,
	}
}

func ServicesToResponse(services []entity.ServiceOffering) []model.ServiceResponse {
	responses := make([]model.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, *ServiceToResponse(&services[i]))
	}
	return responses
}
