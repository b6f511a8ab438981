package usecase

import (
	"context"
	"fmt"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/gateway/messaging"
	"booking-service/src/internal/metrics"
	"booking-service/src/internal/model"
	"booking-service/src/internal/repository"
	httpError "booking-service/src/pkg/http-error"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// CallUseCase drives metered call bookings. The hold placed at creation is
// the customer's spending cap; billing is per started minute and the final
// settlement splits the hold into provider earnings and customer refund in
// one transaction.
type CallUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	BookingRepository    repository.BookingStore
	ServiceRepository    repository.ServiceStore
	WalletRepository     repository.WalletStore
	Config               *viper.Viper
	Redis                redis.UniversalClient
	NotificationProducer *messaging.NotificationProducer
	Now                  func() time.Time
}

func NewCallUseCase(
	logger log.Log,
	validate *validator.Validate,
	bookingRepository repository.BookingStore,
	serviceRepository repository.ServiceStore,
	walletRepository repository.WalletStore,
	cfg *viper.Viper,
	redisClient redis.UniversalClient,
	notificationProducer *messaging.NotificationProducer,
) *CallUseCase {
	return &CallUseCase{
		Log:                  logger,
		Validate:             validate,
		BookingRepository:    bookingRepository,
		ServiceRepository:    serviceRepository,
		WalletRepository:     walletRepository,
		Config:               cfg,
		Redis:                redisClient,
		NotificationProducer: notificationProducer,
		Now:                  time.Now,
	}
}

func (c *CallUseCase) Create(ctx context.Context, request *model.CreateCallBookingRequest) (*model.CallStatusResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("call-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}

	service, err := c.ServiceRepository.FindByID(ctx, request.ServiceID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("service %s not found", request.ServiceID)
		c.Log.Error("call-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}
	if !service.Active || service.Kind != entity.ServiceKindCall {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "service is not bookable as a call"
		c.Log.Error("call-usecase", errObj.Message, "Create", service.Kind)
		return nil, errObj
	}
	if service.ProviderID == request.UserID {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "cannot call your own service"
		return nil, errObj
	}

	now := c.Now().UTC()
	if request.ScheduledAt != nil && request.ScheduledAt.Before(now) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "scheduledAt must be in the future"
		return nil, errObj
	}

	wallet, err := c.WalletRepository.FindByOwner(ctx, request.UserID)
	if err != nil {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "wallet is missing or frozen"
		c.Log.Error("call-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}
	if wallet.Balance <= 0 {
		errObj := httpError.NewUnprocessableEntity().WithCode("INSUFFICIENT_FUNDS")
		errObj.Message = "balance is empty, recharge before calling"
		c.Log.Error("call-usecase", errObj.Message, "Create", request.UserID)
		return nil, errObj
	}

	// The hold caps spend at the configured minutes of talk time, or the
	// whole balance when that is smaller.
	capMinutes := c.Config.GetInt64("booking.call_hold_cap_min")
	holdAmount := service.PerMinuteRate * capMinutes
	if wallet.Balance < holdAmount {
		holdAmount = wallet.Balance
	}

	roomID := uuid.NewString()
	booking := &entity.Booking{
		ID:              uuid.NewString(),
		CustomerID:      request.UserID,
		ProviderID:      service.ProviderID,
		ServiceID:       service.ID,
		Type:            entity.BookingTypeCall,
		Status:          entity.StatusReadyToCall,
		PaymentStatus:   entity.PaymentHeld,
		CallScheduledAt: request.ScheduledAt,
		CallRoomID:      &roomID,
		PerMinuteRate:   service.PerMinuteRate,
		HoldAmount:      holdAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.BookingRepository.CreateWithHold(ctx, booking, holdAmount, "call hold"); err != nil {
		switch err {
		case repository.ErrInsufficientFunds:
			errObj := httpError.NewUnprocessableEntity().WithCode("INSUFFICIENT_FUNDS")
			errObj.Message = "balance changed while placing the hold, please retry"
			c.Log.Error("call-usecase", errObj.Message, "Create", request.UserID)
			return nil, errObj
		case repository.ErrWalletNotFound:
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = "wallet is missing or frozen"
			c.Log.Error("call-usecase", errObj.Message, "Create", request.UserID)
			return nil, errObj
		default:
			errObj := httpError.NewInternalServerError()
			errObj.Message = "failed to create call booking"
			c.Log.Error("call-usecase", fmt.Sprintf("Error create call booking: %v", err), "Create", utils.ConvertString(err))
			return nil, errObj
		}
	}

	metrics.IncBookingCreated(entity.BookingTypeCall)
	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingCreated,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Amount:      holdAmount,
	})

	return c.statusResponse(booking), nil
}

// Initiate rings the provider. The ring deadline lives in redis so a dead
// client cannot leave the booking ringing forever.
func (c *CallUseCase) Initiate(ctx context.Context, request *model.CallActionRequest) (*model.CallStatusResponse, error) {
	booking, errObj := c.load(ctx, request, "Initiate")
	if errObj != nil {
		return nil, errObj
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can start the call"
		c.Log.Error("call-usecase", errObj.Message, "Initiate", request.UserID)
		return nil, errObj
	}
	if errObj := c.transition(ctx, booking, entity.StatusReadyToCall, entity.StatusRinging, "Initiate"); errObj != nil {
		return nil, errObj
	}

	ringTimeout := time.Duration(c.Config.GetInt64("booking.ring_timeout_sec")) * time.Second
	key := fmt.Sprintf("CALL:RING:%s", booking.ID)
	if err := c.Redis.Set(ctx, key, c.Now().UTC().Format(time.RFC3339), ringTimeout).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to stage ring deadline: %v", err), "Initiate", booking.ID)
	}

	roomID := ""
	if booking.CallRoomID != nil {
		roomID = *booking.CallRoomID
	}
	c.notify(&model.NotificationEvent{
		Kind:        model.EventCallRinging,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		RoomID:      roomID,
	})

	return c.statusResponse(booking), nil
}

func (c *CallUseCase) Accept(ctx context.Context, request *model.CallActionRequest) (*model.CallStatusResponse, error) {
	booking, errObj := c.load(ctx, request, "Accept")
	if errObj != nil {
		return nil, errObj
	}
	if booking.ProviderID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the provider can accept the call"
		c.Log.Error("call-usecase", errObj.Message, "Accept", request.UserID)
		return nil, errObj
	}
	if errObj := c.transition(ctx, booking, entity.StatusRinging, entity.StatusConnecting, "Accept"); errObj != nil {
		return nil, errObj
	}

	if err := c.Redis.Del(ctx, fmt.Sprintf("CALL:RING:%s", booking.ID)).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to clear ring deadline: %v", err), "Accept", booking.ID)
	}

	return c.statusResponse(booking), nil
}

// StartTimer flips the booking to in_call once the media session is up and
// stamps the moment billing starts from.
func (c *CallUseCase) StartTimer(ctx context.Context, request *model.CallActionRequest) (*model.CallStatusResponse, error) {
	booking, errObj := c.load(ctx, request, "StartTimer")
	if errObj != nil {
		return nil, errObj
	}
	if booking.PartyOf(request.UserID) == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this call"
		c.Log.Error("call-usecase", errObj.Message, "StartTimer", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusConnecting {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call timer cannot start from status %s", booking.Status)
		c.Log.Error("call-usecase", errObj.Message, "StartTimer", booking.Status)
		return nil, errObj
	}

	now := c.Now().UTC()
	if err := c.BookingRepository.StartCall(ctx, booking.ID, now); err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "call changed concurrently, please reload"
			c.Log.Error("call-usecase", errObj.Message, "StartTimer", "concurrent-update")
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to start call timer"
		c.Log.Error("call-usecase", fmt.Sprintf("Error start call: %v", err), "StartTimer", utils.ConvertString(err))
		return nil, errObj
	}
	booking.Status = entity.StatusInCall
	booking.CallStartedAt = &now

	if err := c.Redis.Set(ctx, fmt.Sprintf("CALL:BEAT:%s", booking.ID), now.Format(time.RFC3339), 2*time.Minute).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to seed heartbeat: %v", err), "StartTimer", booking.ID)
	}

	return c.statusResponse(booking), nil
}

// Heartbeat reports running cost and refreshes call liveness. It never
// transitions state and never moves money.
func (c *CallUseCase) Heartbeat(ctx context.Context, request *model.CallActionRequest) (*model.CallHeartbeatResponse, error) {
	booking, errObj := c.load(ctx, request, "Heartbeat")
	if errObj != nil {
		return nil, errObj
	}
	if booking.PartyOf(request.UserID) == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this call"
		c.Log.Error("call-usecase", errObj.Message, "Heartbeat", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusInCall || booking.CallStartedAt == nil {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call is not running, status %s", booking.Status)
		c.Log.Error("call-usecase", errObj.Message, "Heartbeat", booking.Status)
		return nil, errObj
	}

	now := c.Now().UTC()
	elapsed := now.Sub(*booking.CallStartedAt)
	elapsedSeconds := int64(elapsed / time.Second)
	minutes := billedMinutes(elapsed)
	runningCost := minutes * booking.PerMinuteRate
	if runningCost > booking.HoldAmount {
		runningCost = booking.HoldAmount
	}
	remaining := booking.HoldAmount - runningCost

	if err := c.Redis.Set(ctx, fmt.Sprintf("CALL:BEAT:%s", booking.ID), now.Format(time.RFC3339), 2*time.Minute).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to refresh heartbeat: %v", err), "Heartbeat", booking.ID)
	}

	return &model.CallHeartbeatResponse{
		BookingID:      booking.ID,
		Status:         booking.Status,
		ElapsedSeconds: elapsedSeconds,
		RunningCost:    runningCost,
		RemainingHold:  remaining,
		LowBalance:     remaining < 2*booking.PerMinuteRate,
	}, nil
}

// End settles the call. Provider earnings and the customer's unused hold
// commit in one transaction; released plus refunded always equals the
// original hold.
func (c *CallUseCase) End(ctx context.Context, request *model.CallActionRequest) (*model.CallSummaryResponse, error) {
	booking, errObj := c.load(ctx, request, "End")
	if errObj != nil {
		return nil, errObj
	}
	party := booking.PartyOf(request.UserID)
	if party == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this call"
		c.Log.Error("call-usecase", errObj.Message, "End", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusInCall || booking.CallStartedAt == nil {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call cannot end from status %s", booking.Status)
		c.Log.Error("call-usecase", errObj.Message, "End", booking.Status)
		return nil, errObj
	}

	service, err := c.ServiceRepository.FindByID(ctx, booking.ServiceID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load service for settlement"
		c.Log.Error("call-usecase", fmt.Sprintf("Error load service: %v", err), "End", utils.ConvertString(err))
		return nil, errObj
	}

	now := c.Now().UTC()
	elapsed := now.Sub(*booking.CallStartedAt)
	durationMinutes := billedMinutes(elapsed)
	actualCost := durationMinutes * booking.PerMinuteRate
	if actualCost > booking.HoldAmount {
		actualCost = booking.HoldAmount
	}
	refundAmount := booking.HoldAmount - actualCost

	earning, refund, err := c.BookingRepository.SettleCall(ctx, booking, actualCost, refundAmount,
		durationMinutes, service.CommissionRate, now)
	if err != nil {
		return nil, c.settlementError(err, "End")
	}

	if err := c.Redis.Del(ctx, fmt.Sprintf("CALL:BEAT:%s", booking.ID)).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to clear heartbeat: %v", err), "End", booking.ID)
	}

	metrics.IncSettlement(metrics.OutcomeReleased)
	recipient := booking.ProviderID
	if party == entity.PartyProvider {
		recipient = booking.CustomerID
	}
	c.notify(&model.NotificationEvent{
		Kind:        model.EventCallSettled,
		RecipientID: recipient,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Amount:      actualCost,
	})

	refundedAmount := int64(0)
	if refund != nil {
		refundedAmount = refund.Amount
	}
	return &model.CallSummaryResponse{
		BookingID:        booking.ID,
		Status:           booking.Status,
		DurationMinutes:  durationMinutes,
		Duration:         utils.FormatDuration(int(durationMinutes)),
		ActualCost:       actualCost,
		Commission:       earning.Commission,
		ProviderEarnings: earning.Amount,
		RefundAmount:     refundedAmount,
	}, nil
}

// Missed reports an unanswered ring. The whole hold goes back without
// commission.
func (c *CallUseCase) Missed(ctx context.Context, request *model.CallActionRequest) (*model.CallSummaryResponse, error) {
	booking, errObj := c.load(ctx, request, "Missed")
	if errObj != nil {
		return nil, errObj
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can report a missed call"
		c.Log.Error("call-usecase", errObj.Message, "Missed", request.UserID)
		return nil, errObj
	}
	return c.refundCall(ctx, booking, entity.StatusMissed, "call missed",
		model.EventCallMissed, booking.ProviderID, request.UserID, "Missed")
}

// Decline is the provider turning the ring down. Same full refund as a
// missed call.
func (c *CallUseCase) Decline(ctx context.Context, request *model.CallActionRequest) (*model.CallSummaryResponse, error) {
	booking, errObj := c.load(ctx, request, "Decline")
	if errObj != nil {
		return nil, errObj
	}
	if booking.ProviderID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the provider can decline the call"
		c.Log.Error("call-usecase", errObj.Message, "Decline", request.UserID)
		return nil, errObj
	}
	return c.refundCall(ctx, booking, entity.StatusCancelled, "call declined",
		model.EventCallDeclined, booking.CustomerID, request.UserID, "Decline")
}

// Cancel lets the customer drop a call booking that never started ringing,
// releasing the hold back in full.
func (c *CallUseCase) Cancel(ctx context.Context, request *model.CallActionRequest) (*model.CallSummaryResponse, error) {
	booking, errObj := c.load(ctx, request, "Cancel")
	if errObj != nil {
		return nil, errObj
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can cancel the call"
		c.Log.Error("call-usecase", errObj.Message, "Cancel", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusReadyToCall {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call cannot be cancelled from status %s", booking.Status)
		c.Log.Error("call-usecase", errObj.Message, "Cancel", booking.Status)
		return nil, errObj
	}

	refund, err := c.BookingRepository.SettleRefund(ctx, booking, booking.HoldAmount,
		[]string{entity.StatusReadyToCall}, entity.StatusCancelled, "call cancelled by customer")
	if err != nil {
		return nil, c.settlementError(err, "Cancel")
	}

	metrics.IncSettlement(metrics.OutcomeRefunded)
	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingCancelled,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Amount:      refund.Amount,
	})

	return &model.CallSummaryResponse{
		BookingID:    booking.ID,
		Status:       booking.Status,
		RefundAmount: refund.Amount,
	}, nil
}

func (c *CallUseCase) refundCall(ctx context.Context, booking *entity.Booking,
	toStatus, reason, eventKind, recipientID, actorID, method string) (*model.CallSummaryResponse, error) {
	if booking.Status != entity.StatusRinging {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call is not ringing, status %s", booking.Status)
		c.Log.Error("call-usecase", errObj.Message, method, booking.Status)
		return nil, errObj
	}

	refund, err := c.BookingRepository.SettleRefund(ctx, booking, booking.HoldAmount,
		[]string{entity.StatusRinging}, toStatus, reason)
	if err != nil {
		return nil, c.settlementError(err, method)
	}

	if err := c.Redis.Del(ctx, fmt.Sprintf("CALL:RING:%s", booking.ID)).Err(); err != nil {
		c.Log.Warn("call-usecase", fmt.Sprintf("failed to clear ring deadline: %v", err), method, booking.ID)
	}

	metrics.IncSettlement(metrics.OutcomeRefunded)
	c.notify(&model.NotificationEvent{
		Kind:        eventKind,
		RecipientID: recipientID,
		BookingID:   booking.ID,
		ActorID:     actorID,
		Amount:      refund.Amount,
		Reason:      reason,
	})

	return &model.CallSummaryResponse{
		BookingID:    booking.ID,
		Status:       booking.Status,
		RefundAmount: refund.Amount,
	}, nil
}

func (c *CallUseCase) transition(ctx context.Context, booking *entity.Booking, from, to, method string) *httpError.CommonError {
	if booking.Status != from {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("call cannot move to %s from status %s", to, booking.Status)
		c.Log.Error("call-usecase", errObj.Message, method, booking.Status)
		return errObj
	}
	if err := c.BookingRepository.UpdateStatus(ctx, booking.ID, from, to); err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "call changed concurrently, please reload"
			c.Log.Error("call-usecase", errObj.Message, method, "concurrent-update")
			return errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to update call status"
		c.Log.Error("call-usecase", fmt.Sprintf("Error update call status: %v", err), method, utils.ConvertString(err))
		return errObj
	}
	booking.Status = to
	return nil
}

func (c *CallUseCase) load(ctx context.Context, request *model.CallActionRequest, method string) (*entity.Booking, *httpError.CommonError) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("call-usecase", errObj.Message, method, utils.ConvertString(err))
		return nil, errObj
	}
	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			errObj := httpError.NewNotFound()
			errObj.Message = fmt.Sprintf("call booking %s not found", request.BookingID)
			c.Log.Error("call-usecase", errObj.Message, method, request.BookingID)
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load call booking"
		c.Log.Error("call-usecase", fmt.Sprintf("Error load call booking: %v", err), method, utils.ConvertString(err))
		return nil, errObj
	}
	if booking.Type != entity.BookingTypeCall {
		errObj := httpError.NewConflict()
		errObj.Message = "booking is not a call"
		c.Log.Error("call-usecase", errObj.Message, method, booking.Type)
		return nil, errObj
	}
	return booking, nil
}

func (c *CallUseCase) settlementError(err error, method string) *httpError.CommonError {
	switch err {
	case repository.ErrHoldNotHeld:
		errObj := httpError.NewConflict().WithCode("ALREADY_RELEASED")
		errObj.Message = "funds for this call were already settled"
		c.Log.Error("call-usecase", errObj.Message, method, "hold-cas")
		return errObj
	case repository.ErrStateConflict:
		errObj := httpError.NewConflict()
		errObj.Message = "call changed concurrently, please reload"
		c.Log.Error("call-usecase", errObj.Message, method, "concurrent-update")
		return errObj
	default:
		errObj := httpError.NewInternalServerError()
		errObj.Message = "call settlement failed"
		c.Log.Error("call-usecase", fmt.Sprintf("Error settle call: %v", err), method, utils.ConvertString(err))
		return errObj
	}
}

func (c *CallUseCase) notify(event *model.NotificationEvent) {
	if c.NotificationProducer == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = c.Now().UTC()
	if err := c.NotificationProducer.SendNotification(event); err != nil {
		metrics.IncNotifyFailure()
		c.Log.Warn("call-usecase", "failed to publish notification", event.Kind, utils.ConvertString(err))
	}
}

func (c *CallUseCase) statusResponse(booking *entity.Booking) *model.CallStatusResponse {
	resp := &model.CallStatusResponse{
		BookingID:     booking.ID,
		Status:        booking.Status,
		PerMinuteRate: booking.PerMinuteRate,
		HoldAmount:    booking.HoldAmount,
		StartedAt:     booking.CallStartedAt,
	}
	if booking.CallRoomID != nil {
		resp.RoomID = *booking.CallRoomID
	}
	return resp
}

// billedMinutes rounds elapsed time up to whole minutes with a one-minute
// floor, the per-started-minute billing rule.
func billedMinutes(elapsed time.Duration) int64 {
	seconds := int64(elapsed / time.Second)
	minutes := seconds / 60
	if seconds%60 != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
