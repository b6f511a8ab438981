package model

import "time"

type WalletBalanceRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type RechargeRequest struct {
	UserID string `json:"userId" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

type WalletHistoryRequest struct {
	UserID string `json:"userId" validate:"required"`
	Limit  int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int    `json:"offset" validate:"omitempty,gte=0"`
}

type WalletResponse struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	OwnerKind        string    `json:"ownerKind"`
	Balance          int64     `json:"balance"`
	LifetimeRecharge int64     `json:"lifetimeRecharge"`
	LifetimeDeposit  int64     `json:"lifetimeDeposit"`
	Status           string    `json:"status"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type TransactionResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Commission int64     `json:"commission,omitempty"`
	BookingID  string    `json:"bookingId,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
