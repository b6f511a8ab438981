package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
	"booking-service/src/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceFixture(t *testing.T) (*memoryStore, *ServiceUseCase) {
	t.Helper()
	store := newMemoryStore()
	store.seedUser("provider-1", "Test Provider", true)
	store.seedUser("customer-1", "Test Customer", false)

	uc := NewServiceUseCase(
		log.Log{},
		newTestValidator(),
		&memoryServiceStore{store},
		&memoryUserStore{store},
		testConfig(),
	)
	uc.Now = func() time.Time { return baseTime }
	return store, uc
}

func TestCreateService(t *testing.T) {
	ctx := context.Background()

	t.Run("DateService", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		resp, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "provider-1",
			Title:  "Dinner Date",
			Kind:   entity.ServiceKindDate,
			Price:  25_000,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "provider-1", resp.ProviderID)
		assert.Equal(t, int64(25_000), resp.Price)
		assert.Equal(t, int64(20), resp.CommissionRate) // platform cut from config
		assert.True(t, resp.Active)
	})

	t.Run("CallService", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		resp, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID:        "provider-1",
			Title:         "Late Night Line",
			Kind:          entity.ServiceKindCall,
			PerMinuteRate: 500,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(500), resp.PerMinuteRate)
	})

	t.Run("CustomerCannotPublish", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		_, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "customer-1",
			Title:  "Dinner Date",
			Kind:   entity.ServiceKindDate,
			Price:  25_000,
		})
		errObj := assertCommonError(t, err, http.StatusForbidden, "FORBIDDEN")
		assert.Contains(t, errObj.Message, "only providers")
	})

	t.Run("DateNeedsPrice", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		_, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "provider-1",
			Title:  "Dinner Date",
			Kind:   entity.ServiceKindDate,
		})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("CallNeedsRate", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		_, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "provider-1",
			Title:  "Late Night Line",
			Kind:   entity.ServiceKindCall,
		})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		_, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "provider-1",
			Title:  "Something Else",
			Kind:   "massage",
			Price:  10_000,
		})
		assertCommonError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, uc := newServiceFixture(t)

		_, err := uc.Create(ctx, &model.CreateServiceRequest{
			UserID: "ghost",
			Title:  "Dinner Date",
			Kind:   entity.ServiceKindDate,
			Price:  25_000,
		})
		assertCommonError(t, err, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestListServices(t *testing.T) {
	ctx := context.Background()

	seed := func(store *memoryStore, providerID, kind string, active bool, age time.Duration) {
		store.seedService(&entity.ServiceOffering{
			ID:             uuid.NewString(),
			ProviderID:     providerID,
			Title:          "Service",
			Kind:           kind,
			Price:          25_000,
			PerMinuteRate:  500,
			CommissionRate: 20,
			Active:         active,
			CreatedAt:      baseTime.Add(-age),
		})
	}

	t.Run("FiltersByKindAndProvider", func(t *testing.T) {
		store, uc := newServiceFixture(t)
		seed(store, "provider-1", entity.ServiceKindDate, true, time.Hour)
		seed(store, "provider-1", entity.ServiceKindCall, true, 2*time.Hour)
		seed(store, "provider-2", entity.ServiceKindDate, true, 3*time.Hour)

		all, err := uc.List(ctx, &model.ListServicesRequest{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		calls, err := uc.List(ctx, &model.ListServicesRequest{Kind: entity.ServiceKindCall})
		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, entity.ServiceKindCall, calls[0].Kind)

		mine, err := uc.List(ctx, &model.ListServicesRequest{ProviderID: "provider-2"})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "provider-2", mine[0].ProviderID)
	})

	t.Run("HidesInactive", func(t *testing.T) {
		store, uc := newServiceFixture(t)
		seed(store, "provider-1", entity.ServiceKindDate, true, time.Hour)
		seed(store, "provider-1", entity.ServiceKindDate, false, 2*time.Hour)

		listed, err := uc.List(ctx, &model.ListServicesRequest{})
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("NewestFirst", func(t *testing.T) {
		store, uc := newServiceFixture(t)
		seed(store, "provider-1", entity.ServiceKindDate, true, 3*time.Hour)
		seed(store, "provider-1", entity.ServiceKindCall, true, time.Hour)

		listed, err := uc.List(ctx, &model.ListServicesRequest{})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, entity.ServiceKindCall, listed[0].Kind)
	})
}
