package repository

import (
	"context"
	"time"

	"booking-service/src/internal/entity"
)

// Store interfaces consumed by the usecase layer. The SQL repositories in
// this package are the production implementations; tests substitute mocks
// or the in-memory store.

type BookingStore interface {
	CreateWithHold(ctx context.Context, booking *entity.Booking, holdAmount int64, holdReason string) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByToken(ctx context.Context, token string) (*entity.Booking, error)
	ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]entity.Booking, error)
	ListByProvider(ctx context.Context, providerID, status string, limit, offset int) ([]entity.Booking, error)
	FindDueAutoRelease(ctx context.Context, now time.Time, limit int) ([]entity.Booking, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
	CheckIn(ctx context.Context, id, party string, at time.Time, lat, lng float64) (bool, error)
	MarkCompleted(ctx context.Context, id, token string, tokenExpiresAt, autoReleaseAt time.Time) error
	MarkDisputed(ctx context.Context, id, reason string, at time.Time) error
	StartCall(ctx context.Context, id string, at time.Time) error
	SettleRelease(ctx context.Context, booking *entity.Booking, commissionRate int64, reason string) (*entity.WalletTransaction, error)
	SettleRefund(ctx context.Context, booking *entity.Booking, amount int64, from []string, to, reason string) (*entity.WalletTransaction, error)
	SettleCall(ctx context.Context, booking *entity.Booking, actualCost, refundAmount, durationMinutes, commissionRate int64, endedAt time.Time) (*entity.WalletTransaction, *entity.WalletTransaction, error)
	Delete(ctx context.Context, id string) error
}

type WalletStore interface {
	FindByOwner(ctx context.Context, ownerID string) (*entity.Wallet, error)
	History(ctx context.Context, ownerID string, limit, offset int) ([]entity.WalletTransaction, error)
	Recharge(ctx context.Context, ownerID string, amount int64) (*entity.WalletTransaction, error)
}

type ServiceStore interface {
	Create(ctx context.Context, service *entity.ServiceOffering) error
	FindByID(ctx context.Context, id string) (*entity.ServiceOffering, error)
	List(ctx context.Context, providerID, kind string, limit, offset int) ([]entity.ServiceOffering, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}
