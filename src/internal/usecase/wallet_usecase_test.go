package usecase

import (
	"context"
	"net/http"
	"testing"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
	"booking-service/src/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWalletUseCase(store *memoryStore) *WalletUseCase {
	return NewWalletUseCase(log.Log{}, newTestValidator(), store)
}

func TestWalletBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsWallet", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 42_000)
		uc := newWalletUseCase(store)

		resp, err := uc.Balance(ctx, &model.WalletBalanceRequest{UserID: "customer-1"})
		require.NoError(t, err)
		assert.Equal(t, int64(42_000), resp.Balance)
		assert.Equal(t, entity.WalletOwnerCustomer, resp.OwnerKind)
		assert.Equal(t, entity.WalletStatusActive, resp.Status)
	})

	t.Run("MissingWallet", func(t *testing.T) {
		uc := newWalletUseCase(newMemoryStore())

		_, err := uc.Balance(ctx, &model.WalletBalanceRequest{UserID: "nobody"})
		assertCommonError(t, err, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("MissingUserID", func(t *testing.T) {
		uc := newWalletUseCase(newMemoryStore())

		_, err := uc.Balance(ctx, &model.WalletBalanceRequest{})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func TestWalletRecharge(t *testing.T) {
	ctx := context.Background()

	t.Run("CreditsAndRecordsLifetime", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 10_000)
		uc := newWalletUseCase(store)

		resp, err := uc.Recharge(ctx, &model.RechargeRequest{UserID: "customer-1", Amount: 50_000})
		require.NoError(t, err)
		assert.Equal(t, int64(60_000), resp.Balance)
		assert.Equal(t, int64(50_000), resp.LifetimeRecharge)

		txns := store.transactionsFor("customer-1")
		require.Len(t, txns, 1)
		assert.Equal(t, entity.TxnKindRecharge, txns[0].Kind)
		assert.Equal(t, int64(50_000), txns[0].Amount)
	})

	t.Run("FrozenWallet", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 10_000)
		store.freezeWallet("customer-1")
		uc := newWalletUseCase(store)

		_, err := uc.Recharge(ctx, &model.RechargeRequest{UserID: "customer-1", Amount: 50_000})
		assertCommonError(t, err, http.StatusUnprocessableEntity, "UNPROCESSABLE")
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 10_000)
		uc := newWalletUseCase(store)

		_, err := uc.Recharge(ctx, &model.RechargeRequest{UserID: "customer-1", Amount: 0})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")

		_, err = uc.Recharge(ctx, &model.RechargeRequest{UserID: "customer-1", Amount: -5})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func TestWalletHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("NewestFirstWithPaging", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 0)
		uc := newWalletUseCase(store)

		for _, amount := range []int64{1_000, 2_000, 3_000} {
			_, err := uc.Recharge(ctx, &model.RechargeRequest{UserID: "customer-1", Amount: amount})
			require.NoError(t, err)
		}

		page, err := uc.History(ctx, &model.WalletHistoryRequest{UserID: "customer-1", Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, int64(3_000), page[0].Amount)
		assert.Equal(t, int64(2_000), page[1].Amount)

		rest, err := uc.History(ctx, &model.WalletHistoryRequest{UserID: "customer-1", Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, int64(1_000), rest[0].Amount)
	})

	t.Run("ShowsSignedLedgerForBookingFlow", func(t *testing.T) {
		f := newDateFixture(t)
		uc := newWalletUseCase(f.store)
		created := f.create(t)
		_, err := f.uc.Reject(context.Background(), &model.RejectBookingRequest{
			UserID:    f.provider,
			BookingID: created.ID,
		})
		require.NoError(t, err)

		history, err := uc.History(ctx, &model.WalletHistoryRequest{UserID: f.customer})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, entity.TxnKindRefund, history[0].Kind)
		assert.Equal(t, int64(25_000), history[0].Amount)
		assert.Equal(t, entity.TxnKindHold, history[1].Kind)
		assert.Equal(t, int64(-25_000), history[1].Amount)
		assert.Equal(t, created.ID, history[0].BookingID)
	})

	t.Run("EmptyHistory", func(t *testing.T) {
		store := newMemoryStore()
		store.seedWallet("customer-1", entity.WalletOwnerCustomer, 0)
		uc := newWalletUseCase(store)

		history, err := uc.History(ctx, &model.WalletHistoryRequest{UserID: "customer-1"})
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}
