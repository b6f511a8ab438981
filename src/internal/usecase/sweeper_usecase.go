package usecase

import (
	"context"
	"fmt"
	"time"

	"booking-service/src/internal/gateway/messaging"
	"booking-service/src/internal/metrics"
	"booking-service/src/internal/model"
	"booking-service/src/internal/repository"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// TaskAutoRelease is the asynq task name for the auto-release sweep.
const TaskAutoRelease = "booking:auto-release"

// SweeperUseCase releases escrows the customer never confirmed before the
// deadline. It is the only writer that settles without a user request.
type SweeperUseCase struct {
	Log                  log.Log
	BookingRepository    repository.BookingStore
	ServiceRepository    repository.ServiceStore
	Config               *viper.Viper
	NotificationProducer *messaging.NotificationProducer
	Now                  func() time.Time
}

func NewSweeperUseCase(
	logger log.Log,
	bookingRepository repository.BookingStore,
	serviceRepository repository.ServiceStore,
	cfg *viper.Viper,
	notificationProducer *messaging.NotificationProducer,
) *SweeperUseCase {
	return &SweeperUseCase{
		Log:                  logger,
		BookingRepository:    bookingRepository,
		ServiceRepository:    serviceRepository,
		Config:               cfg,
		NotificationProducer: notificationProducer,
		Now:                  time.Now,
	}
}

// ReleaseDue pages through all due bookings and settles each on its own.
// One bad booking never stops the sweep, and a booking settled by a
// concurrent writer is skipped via the hold CAS.
func (c *SweeperUseCase) ReleaseDue(ctx context.Context) (*model.SweepReport, error) {
	started := time.Now()
	report := &model.SweepReport{}
	batch := c.Config.GetInt("booking.sweep_batch_size")

	for {
		due, err := c.BookingRepository.FindDueAutoRelease(ctx, c.Now().UTC(), batch)
		if err != nil {
			c.Log.Error("sweeper-usecase", fmt.Sprintf("Error find due bookings: %v", err), "ReleaseDue", utils.ConvertString(err))
			return report, err
		}
		if len(due) == 0 {
			break
		}

		// settled counts rows that left the due set this pass; when a full
		// batch makes no progress every remaining row is failing and the
		// sweep must stop instead of refetching them forever.
		settled := 0
		for i := range due {
			booking := &due[i]
			report.Scanned++

			service, err := c.ServiceRepository.FindByID(ctx, booking.ServiceID)
			if err != nil {
				report.Failed++
				c.Log.Error("sweeper-usecase", fmt.Sprintf("Error load service for booking %s: %v", booking.ID, err), "ReleaseDue", utils.ConvertString(err))
				continue
			}

			earning, err := c.BookingRepository.SettleRelease(ctx, booking, service.CommissionRate, "auto release")
			if err != nil {
				if err == repository.ErrHoldNotHeld || err == repository.ErrStateConflict {
					settled++
					c.Log.Info("sweeper-usecase", "booking settled by another writer", "ReleaseDue", booking.ID)
					continue
				}
				report.Failed++
				c.Log.Error("sweeper-usecase", fmt.Sprintf("Error auto-release booking %s: %v", booking.ID, err), "ReleaseDue", utils.ConvertString(err))
				continue
			}

			settled++
			report.Released++
			report.ReleasedAmount += booking.Price
			metrics.IncSettlement(metrics.OutcomeAutoReleased)
			c.notify(&model.NotificationEvent{
				Kind:        model.EventBookingAutoReleased,
				RecipientID: booking.ProviderID,
				BookingID:   booking.ID,
				Amount:      earning.Amount,
			})
		}

		if settled == 0 || len(due) < batch {
			break
		}
	}

	metrics.ObserveSweep(time.Since(started))
	c.Log.Info("sweeper-usecase",
		fmt.Sprintf("sweep finished: scanned=%d released=%d failed=%d amount=%d",
			report.Scanned, report.Released, report.Failed, report.ReleasedAmount),
		"ReleaseDue", "")

	return report, nil
}

func (c *SweeperUseCase) notify(event *model.NotificationEvent) {
	if c.NotificationProducer == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = c.Now().UTC()
	if err := c.NotificationProducer.SendNotification(event); err != nil {
		metrics.IncNotifyFailure()
		c.Log.Warn("sweeper-usecase", "failed to publish notification", event.Kind, utils.ConvertString(err))
	}
}
