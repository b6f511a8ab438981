package model

import "time"

type LocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
	Address   string  `json:"address"`
}

type CreateBookingRequest struct {
	UserID    string           `json:"userId" validate:"required"`
	ServiceID string           `json:"serviceId" validate:"required"`
	StartTime time.Time        `json:"startTime" validate:"required"`
	EndTime   time.Time        `json:"endTime" validate:"required"`
	Location  *LocationRequest `json:"location"`
}

type BookingActionRequest struct {
	UserID    string `json:"userId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
}

type CancelBookingRequest struct {
	UserID    string `json:"userId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
	Reason    string `json:"reason"`
}

type RejectBookingRequest struct {
	UserID    string `json:"userId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
	Reason    string `json:"reason"`
}

type CheckinRequest struct {
	UserID    string  `json:"userId" validate:"required"`
	BookingID string  `json:"bookingId" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

type ConfirmByTokenRequest struct {
	UserID string `json:"userId" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

type DisputeBookingRequest struct {
	UserID    string `json:"userId" validate:"required"`
	BookingID string `json:"bookingId" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=10"`
}

type ListBookingsRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=customer provider"`
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed in_progress awaiting_confirmation completed cancelled rejected disputed ready_to_call ringing connecting in_call missed"`
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int    `json:"offset" validate:"omitempty,gte=0"`
}

type CheckinView struct {
	At        *time.Time `json:"at,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
}

type BookingResponse struct {
	ID              string       `json:"id"`
	CustomerID      string       `json:"customerId"`
	ProviderID      string       `json:"providerId"`
	ServiceID       string       `json:"serviceId"`
	Type            string       `json:"type"`
	Price           int64        `json:"price"`
	StartTime       *time.Time   `json:"startTime,omitempty"`
	EndTime         *time.Time   `json:"endTime,omitempty"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"paymentStatus"`
	LocationLat     *float64     `json:"locationLat,omitempty"`
	LocationLng     *float64     `json:"locationLng,omitempty"`
	LocationAddress string       `json:"locationAddress,omitempty"`
	CustomerCheckin *CheckinView `json:"customerCheckin,omitempty"`
	ProviderCheckin *CheckinView `json:"providerCheckin,omitempty"`
	TokenExpiresAt  *time.Time   `json:"tokenExpiresAt,omitempty"`
	AutoReleaseAt   *time.Time   `json:"autoReleaseAt,omitempty"`
	DisputeReason   string       `json:"disputeReason,omitempty"`
	CancelReason    string       `json:"cancelReason,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CompleteBookingResponse carries the one-time confirmation token back to
// the provider. The token itself is never exposed on any other read path.
type CompleteBookingResponse struct {
	BookingID       string    `json:"bookingId"`
	Status          string    `json:"status"`
	CompletionToken string    `json:"completionToken"`
	TokenExpiresAt  time.Time `json:"tokenExpiresAt"`
	AutoReleaseAt   time.Time `json:"autoReleaseAt"`
}

type CheckinResponse struct {
	BookingID   string    `json:"bookingId"`
	Party       string    `json:"party"`
	CheckedInAt time.Time `json:"checkedInAt"`
	Status      string    `json:"status"`
	DistanceM   *float64  `json:"distanceM,omitempty"`
}

// SweepReport summarizes one auto-release pass over bookings whose
// confirmation deadline has lapsed.
type SweepReport struct {
	Scanned        int   `json:"scanned"`
	Released       int   `json:"released"`
	Failed         int   `json:"failed"`
	ReleasedAmount int64 `json:"releasedAmount"`
}

type SettlementResponse struct {
	BookingID        string `json:"bookingId"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"paymentStatus"`
	Amount           int64  `json:"amount"`
	Commission       int64  `json:"commission"`
	ProviderEarnings int64  `json:"providerEarnings"`
	RefundAmount     int64  `json:"refundAmount"`
}
