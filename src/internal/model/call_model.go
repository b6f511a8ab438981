package model

import "time"

type CreateCallBookingRequest struct {
	UserID      string     `json:"userId" validate:"required"`
	ServiceID   string     `json:"serviceId" validate:"required"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type CallActionRequest struct {
	UserID    string `json:"userId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
}

type CallStatusResponse struct {
	BookingID     string     `json:"bookingId"`
	Status        string     `json:"status"`
	RoomID        string     `json:"roomId,omitempty"`
	PerMinuteRate int64      `json:"perMinuteRate"`
	HoldAmount    int64      `json:"holdAmount"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
}

type CallHeartbeatResponse struct {
	BookingID      string `json:"bookingId"`
	Status         string `json:"status"`
	ElapsedSeconds int64  `json:"elapsedSeconds"`
	RunningCost    int64  `json:"runningCost"`
	RemainingHold  int64  `json:"remainingHold"`
	LowBalance     bool   `json:"lowBalance"`
}

type CallSummaryResponse struct {
	BookingID        string `json:"bookingId"`
	Status           string `json:"status"`
	DurationMinutes  int64  `json:"durationMinutes"`
	Duration         string `json:"duration"`
	ActualCost       int64  `json:"actualCost"`
	Commission       int64  `json:"commission"`
	ProviderEarnings int64  `json:"providerEarnings"`
	RefundAmount     int64  `json:"refundAmount"`
}
