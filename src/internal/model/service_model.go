package model

import "time"

type CreateServiceRequest struct {
	UserID          string `json:"userId" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Kind            string `json:"kind" validate:"required,oneof=date call"`
	Price           int64  `json:"price" validate:"omitempty,gt=0"`
	PerMinuteRate   int64  `json:"perMinuteRate" validate:"omitempty,gt=0"`
	DurationMinutes int64  `json:"durationMinutes" validate:"omitempty,gt=0"`
}

type ListServicesRequest struct {
	ProviderID string `json:"providerId"`
	Kind       string `json:"kind" validate:"omitempty,oneof=date call"`
	Limit      int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset     int    `json:"offset" validate:"omitempty,gte=0"`
}

type ServiceResponse struct {
	ID              string    `json:"id"`
	ProviderID      string    `json:"providerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Kind            string    `json:"kind"`
	Price           int64     `json:"price,omitempty"`
	PerMinuteRate   int64     `json:"perMinuteRate,omitempty"`
	CommissionRate  int64     `json:"commissionRate"`
	DurationMinutes int64     `json:"durationMinutes,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
}
