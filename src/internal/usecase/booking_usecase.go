package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"booking-service/src/internal/entity"
	"booking-service/src/internal/gateway/messaging"
	"booking-service/src/internal/metrics"
	"booking-service/src/internal/model"
	"booking-service/src/internal/model/converter"
	"booking-service/src/internal/repository"
	"booking-service/src/pkg/geo"
	httpError "booking-service/src/pkg/http-error"
	"booking-service/src/pkg/log"
	"booking-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// BookingUseCase drives the date-booking state machine. Every transition
// follows the same shape: validate, load, authorize, guard, CAS write (with
// the ledger in the same transaction when money moves), then best-effort
// notify.
type BookingUseCase struct {
	Log                  log.Log
	Validate             *validator.Validate
	BookingRepository    repository.BookingStore
	ServiceRepository    repository.ServiceStore
	UserRepository       repository.UserStore
	Config               *viper.Viper
	Geocoder             *geo.Geocoder
	NotificationProducer *messaging.NotificationProducer
	Now                  func() time.Time
}

func NewBookingUseCase(
	logger log.Log,
	validate *validator.Validate,
	bookingRepository repository.BookingStore,
	serviceRepository repository.ServiceStore,
	userRepository repository.UserStore,
	cfg *viper.Viper,
	geocoder *geo.Geocoder,
	notificationProducer *messaging.NotificationProducer,
) *BookingUseCase {
	return &BookingUseCase{
		Log:                  logger,
		Validate:             validate,
		BookingRepository:    bookingRepository,
		ServiceRepository:    serviceRepository,
		UserRepository:       userRepository,
		Config:               cfg,
		Geocoder:             geocoder,
		NotificationProducer: notificationProducer,
		Now:                  time.Now,
	}
}

func (c *BookingUseCase) Create(ctx context.Context, request *model.CreateBookingRequest) (*model.BookingResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}

	service, err := c.ServiceRepository.FindByID(ctx, request.ServiceID)
	if err != nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("service %s not found", request.ServiceID)
		c.Log.Error("booking-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return nil, errObj
	}
	if !service.Active || service.Kind != entity.ServiceKindDate {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "service is not bookable as a date"
		c.Log.Error("booking-usecase", errObj.Message, "Create", service.Kind)
		return nil, errObj
	}
	if service.ProviderID == request.UserID {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "cannot book your own service"
		return nil, errObj
	}

	now := c.Now().UTC()
	start := request.StartTime.UTC()
	end := request.EndTime.UTC()
	if !end.After(start) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "endTime must be after startTime"
		return nil, errObj
	}
	if start.Before(now) {
		errObj := httpError.NewBadRequest()
		errObj.Message = "startTime must be in the future"
		return nil, errObj
	}

	booking := &entity.Booking{
		ID:            uuid.NewString(),
		CustomerID:    request.UserID,
		ProviderID:    service.ProviderID,
		ServiceID:     service.ID,
		Type:          entity.BookingTypeDate,
		Price:         service.Price,
		StartTime:     &start,
		EndTime:       &end,
		Status:        entity.StatusPending,
		PaymentStatus: entity.PaymentHeld,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if request.Location != nil {
		booking.LocationLat = &request.Location.Latitude
		booking.LocationLng = &request.Location.Longitude
		booking.LocationAddress = request.Location.Address
		if booking.LocationAddress == "" && c.Geocoder != nil {
			address, geoErr := c.Geocoder.ReverseGeocode(ctx, request.Location.Latitude, request.Location.Longitude)
			if geoErr != nil {
				c.Log.Warn("booking-usecase", "reverse geocode failed", "Create", utils.ConvertString(geoErr))
			} else {
				booking.LocationAddress = address
			}
		}
	}

	if err := c.BookingRepository.CreateWithHold(ctx, booking, service.Price, "date booking hold"); err != nil {
		switch err {
		case repository.ErrInsufficientFunds:
			errObj := httpError.NewUnprocessableEntity().WithCode("INSUFFICIENT_FUNDS")
			errObj.Message = fmt.Sprintf("balance is lower than the booking price %d", service.Price)
			c.Log.Error("booking-usecase", errObj.Message, "Create", booking.CustomerID)
			return nil, errObj
		case repository.ErrWalletNotFound:
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = "wallet is missing or frozen"
			c.Log.Error("booking-usecase", errObj.Message, "Create", booking.CustomerID)
			return nil, errObj
		default:
			errObj := httpError.NewInternalServerError()
			errObj.Message = "failed to create booking"
			c.Log.Error("booking-usecase", fmt.Sprintf("Error create booking: %v", err), "Create", utils.ConvertString(err))
			return nil, errObj
		}
	}

	metrics.IncBookingCreated(entity.BookingTypeDate)
	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingCreated,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Amount:      booking.Price,
	})

	return converter.BookingToResponse(booking), nil
}

func (c *BookingUseCase) Accept(ctx context.Context, request *model.BookingActionRequest) (*model.BookingResponse, error) {
	booking, errObj := c.loadForParty(ctx, request, "Accept")
	if errObj != nil {
		return nil, errObj
	}
	if booking.ProviderID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the provider can accept a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Accept", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be accepted from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "Accept", booking.Status)
		return nil, errObj
	}

	err := c.BookingRepository.UpdateStatus(ctx, booking.ID, entity.StatusPending, entity.StatusConfirmed)
	if err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "booking changed concurrently, please reload"
			c.Log.Error("booking-usecase", errObj.Message, "Accept", "concurrent-update")
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to accept booking"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error accept booking: %v", err), "Accept", utils.ConvertString(err))
		return nil, errObj
	}
	booking.Status = entity.StatusConfirmed

	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingAccepted,
		RecipientID: booking.CustomerID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
	})

	return converter.BookingToResponse(booking), nil
}

func (c *BookingUseCase) Reject(ctx context.Context, request *model.RejectBookingRequest) (*model.SettlementResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "Reject", utils.ConvertString(err))
		return nil, errObj
	}

	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		return nil, c.notFound(err, request.BookingID, "Reject")
	}
	if booking.ProviderID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the provider can reject a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Reject", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusPending {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be rejected from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "Reject", booking.Status)
		return nil, errObj
	}

	reason := request.Reason
	if reason == "" {
		reason = "rejected by provider"
	}

	refund, err := c.BookingRepository.SettleRefund(ctx, booking, booking.Price,
		[]string{entity.StatusPending}, entity.StatusRejected, reason)
	if err != nil {
		return nil, c.settlementError(err, "Reject")
	}

	metrics.IncSettlement(metrics.OutcomeRefunded)
	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingRejected,
		RecipientID: booking.CustomerID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Amount:      refund.Amount,
		Reason:      reason,
	})

	return &model.SettlementResponse{
		BookingID:     booking.ID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		Amount:        booking.Price,
		RefundAmount:  refund.Amount,
	}, nil
}

func (c *BookingUseCase) Cancel(ctx context.Context, request *model.CancelBookingRequest) (*model.SettlementResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "Cancel", utils.ConvertString(err))
		return nil, errObj
	}

	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		return nil, c.notFound(err, request.BookingID, "Cancel")
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can cancel a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Cancel", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusPending && booking.Status != entity.StatusConfirmed {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be cancelled from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "Cancel", booking.Status)
		return nil, errObj
	}

	cutoffHours := c.Config.GetInt64("booking.cancel_cutoff_hours")
	if booking.StartTime != nil {
		cutoff := booking.StartTime.Add(-time.Duration(cutoffHours) * time.Hour)
		if c.Now().UTC().After(cutoff) {
			errObj := httpError.NewConflict().WithCode("CANCELLATION_WINDOW_CLOSED")
			errObj.Message = fmt.Sprintf("cancellations close %d hours before start", cutoffHours)
			c.Log.Error("booking-usecase", errObj.Message, "Cancel", booking.ID)
			return nil, errObj
		}
	}

	reason := request.Reason
	if reason == "" {
		reason = "cancelled by customer"
	}

	refund, err := c.BookingRepository.SettleRefund(ctx, booking, booking.Price,
		[]string{entity.StatusPending, entity.StatusConfirmed}, entity.StatusCancelled, reason)
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
		Reason:      reason,
	})

	return &model.SettlementResponse{
		BookingID:     booking.ID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		Amount:        booking.Price,
		RefundAmount:  refund.Amount,
	}, nil
}

// CheckIn records a party's arrival. The admission gate is time window
// first, then GPS radius when the booking has a stored venue. When the
// second party lands the booking flips to in_progress in the same database
// transaction as the stamp.
func (c *BookingUseCase) CheckIn(ctx context.Context, request *model.CheckinRequest) (*model.CheckinResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "CheckIn", utils.ConvertString(err))
		return nil, errObj
	}

	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		return nil, c.notFound(err, request.BookingID, "CheckIn")
	}
	party := booking.PartyOf(request.UserID)
	if party == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this booking"
		c.Log.Error("booking-usecase", errObj.Message, "CheckIn", request.UserID)
		return nil, errObj
	}
	if booking.Type != entity.BookingTypeDate {
		errObj := httpError.NewConflict()
		errObj.Message = "check-in applies to date bookings only"
		return nil, errObj
	}
	if booking.Status != entity.StatusConfirmed && booking.Status != entity.StatusInProgress {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("check-in is not open in status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "CheckIn", booking.Status)
		return nil, errObj
	}

	now := c.Now().UTC()
	if booking.StartTime != nil {
		openBefore := time.Duration(c.Config.GetInt64("booking.checkin_open_before_min")) * time.Minute
		opensAt := booking.StartTime.Add(-openBefore)
		if now.Before(opensAt) {
			wait := opensAt.Sub(now)
			minutes := int64(wait / time.Minute)
			if wait%time.Minute != 0 {
				minutes++
			}
			errObj := httpError.NewConflict().WithCode("CHECKIN_WINDOW")
			errObj.Message = fmt.Sprintf("check-in opens in %d minutes", minutes)
			c.Log.Error("booking-usecase", errObj.Message, "CheckIn", booking.ID)
			return nil, errObj
		}
	}
	if booking.EndTime != nil && now.After(*booking.EndTime) {
		errObj := httpError.NewConflict().WithCode("CHECKIN_WINDOW")
		errObj.Message = "booking already ended"
		c.Log.Error("booking-usecase", errObj.Message, "CheckIn", booking.ID)
		return nil, errObj
	}

	var distanceM *float64
	if booking.LocationLat != nil && booking.LocationLng != nil {
		distance := geo.HaversineMeters(request.Latitude, request.Longitude, *booking.LocationLat, *booking.LocationLng)
		radius := c.Config.GetFloat64("booking.checkin_radius_m")
		if distance > radius {
			errObj := httpError.NewConflict().WithCode("OUT_OF_RADIUS")
			errObj.Message = fmt.Sprintf("you are %.0f m from the venue, allowed radius is %.0f m", distance, radius)
			c.Log.Error("booking-usecase", errObj.Message, "CheckIn", booking.ID)
			return nil, errObj
		}
		distanceM = &distance
	}

	inProgress, err := c.BookingRepository.CheckIn(ctx, booking.ID, party, now, request.Latitude, request.Longitude)
	if err != nil {
		if err == repository.ErrAlreadyCheckedIn {
			errObj := httpError.NewConflict().WithCode("ALREADY_CHECKED_IN")
			errObj.Message = "you already checked in for this booking"
			c.Log.Error("booking-usecase", errObj.Message, "CheckIn", party)
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to record check-in"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error check-in: %v", err), "CheckIn", utils.ConvertString(err))
		return nil, errObj
	}

	status := booking.Status
	if inProgress {
		status = entity.StatusInProgress
	}

	recipient := booking.ProviderID
	if party == entity.PartyProvider {
		recipient = booking.CustomerID
	}
	c.notify(&model.NotificationEvent{
		Kind:        model.EventCheckinRecorded,
		RecipientID: recipient,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
	})

	return &model.CheckinResponse{
		BookingID:   booking.ID,
		Party:       party,
		CheckedInAt: now,
		Status:      status,
		DistanceM:   distanceM,
	}, nil
}

// Complete is the provider declaring the date done. It only stages the
// confirmation: token, expiry and auto-release deadline. No money moves
// until the customer confirms or the sweeper fires.
func (c *BookingUseCase) Complete(ctx context.Context, request *model.BookingActionRequest) (*model.CompleteBookingResponse, error) {
	booking, errObj := c.loadForParty(ctx, request, "Complete")
	if errObj != nil {
		return nil, errObj
	}
	if booking.ProviderID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the provider can complete a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Complete", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusConfirmed && booking.Status != entity.StatusInProgress {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be completed from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "Complete", booking.Status)
		return nil, errObj
	}

	now := c.Now().UTC()
	if booking.StartTime != nil && now.Before(*booking.StartTime) {
		errObj := httpError.NewConflict().WithCode("TOO_EARLY")
		errObj.Message = "booking has not started yet"
		c.Log.Error("booking-usecase", errObj.Message, "Complete", booking.ID)
		return nil, errObj
	}

	token, err := generateCompletionToken()
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to generate completion token"
		c.Log.Error("booking-usecase", errObj.Message, "Complete", utils.ConvertString(err))
		return nil, errObj
	}
	window := time.Duration(c.Config.GetInt64("booking.confirm_window_hours")) * time.Hour
	expiresAt := now.Add(window)

	err = c.BookingRepository.MarkCompleted(ctx, booking.ID, token, expiresAt, expiresAt)
	if err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "booking changed concurrently, please reload"
			c.Log.Error("booking-usecase", errObj.Message, "Complete", "concurrent-update")
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to complete booking"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error complete booking: %v", err), "Complete", utils.ConvertString(err))
		return nil, errObj
	}

	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingCompletedPending,
		RecipientID: booking.CustomerID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
	})

	return &model.CompleteBookingResponse{
		BookingID:       booking.ID,
		Status:          entity.StatusAwaitingConfirmation,
		CompletionToken: token,
		TokenExpiresAt:  expiresAt,
		AutoReleaseAt:   expiresAt,
	}, nil
}

// Confirm settles the escrow in the provider's favor after the customer
// signs off in the app.
func (c *BookingUseCase) Confirm(ctx context.Context, request *model.BookingActionRequest) (*model.SettlementResponse, error) {
	booking, errObj := c.loadForParty(ctx, request, "Confirm")
	if errObj != nil {
		return nil, errObj
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can confirm a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Confirm", request.UserID)
		return nil, errObj
	}
	return c.release(ctx, booking, "customer confirmation", "Confirm")
}

// ConfirmByToken settles the escrow when the customer scans the provider's
// completion QR code.
func (c *BookingUseCase) ConfirmByToken(ctx context.Context, request *model.ConfirmByTokenRequest) (*model.SettlementResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "ConfirmByToken", utils.ConvertString(err))
		return nil, errObj
	}

	booking, err := c.BookingRepository.FindByToken(ctx, request.Token)
	if err != nil {
		errObj := httpError.NewBadRequest().WithCode("TOKEN_INVALID")
		errObj.Message = "completion token is not valid"
		c.Log.Error("booking-usecase", errObj.Message, "ConfirmByToken", utils.ConvertString(err))
		return nil, errObj
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can confirm a booking"
		c.Log.Error("booking-usecase", errObj.Message, "ConfirmByToken", request.UserID)
		return nil, errObj
	}
	if booking.TokenExpiresAt != nil && c.Now().UTC().After(*booking.TokenExpiresAt) {
		errObj := httpError.NewConflict().WithCode("TOKEN_EXPIRED")
		errObj.Message = "completion token expired"
		c.Log.Error("booking-usecase", errObj.Message, "ConfirmByToken", booking.ID)
		return nil, errObj
	}
	return c.release(ctx, booking, "customer confirmation via token", "ConfirmByToken")
}

func (c *BookingUseCase) release(ctx context.Context, booking *entity.Booking, reason, method string) (*model.SettlementResponse, error) {
	if booking.Status == entity.StatusCompleted {
		errObj := httpError.NewConflict().WithCode("ALREADY_COMPLETED")
		errObj.Message = "booking is already completed"
		c.Log.Error("booking-usecase", errObj.Message, method, booking.ID)
		return nil, errObj
	}
	if booking.Status != entity.StatusAwaitingConfirmation {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be confirmed from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, method, booking.Status)
		return nil, errObj
	}

	service, err := c.ServiceRepository.FindByID(ctx, booking.ServiceID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load service for settlement"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error load service: %v", err), method, utils.ConvertString(err))
		return nil, errObj
	}

	earning, err := c.BookingRepository.SettleRelease(ctx, booking, service.CommissionRate, reason)
	if err != nil {
		return nil, c.settlementError(err, method)
	}

	metrics.IncSettlement(metrics.OutcomeReleased)
	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingConfirmed,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     booking.CustomerID,
		Amount:      earning.Amount,
	})

	return &model.SettlementResponse{
		BookingID:        booking.ID,
		Status:           booking.Status,
		PaymentStatus:    booking.PaymentStatus,
		Amount:           booking.Price,
		Commission:       earning.Commission,
		ProviderEarnings: earning.Amount,
	}, nil
}

// Dispute parks the escrow: the hold stays on the customer's funds and no
// release or refund can pass the held CAS until support resolves it.
func (c *BookingUseCase) Dispute(ctx context.Context, request *model.DisputeBookingRequest) (*model.BookingResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "Dispute", utils.ConvertString(err))
		return nil, errObj
	}

	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		return nil, c.notFound(err, request.BookingID, "Dispute")
	}
	if booking.CustomerID != request.UserID {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "only the customer can dispute a booking"
		c.Log.Error("booking-usecase", errObj.Message, "Dispute", request.UserID)
		return nil, errObj
	}
	if booking.Status != entity.StatusAwaitingConfirmation {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking cannot be disputed from status %s", booking.Status)
		c.Log.Error("booking-usecase", errObj.Message, "Dispute", booking.Status)
		return nil, errObj
	}

	now := c.Now().UTC()
	err = c.BookingRepository.MarkDisputed(ctx, booking.ID, request.Reason, now)
	if err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "booking changed concurrently, please reload"
			c.Log.Error("booking-usecase", errObj.Message, "Dispute", "concurrent-update")
			return nil, errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to dispute booking"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error dispute booking: %v", err), "Dispute", utils.ConvertString(err))
		return nil, errObj
	}
	booking.Status = entity.StatusDisputed
	booking.DisputeReason = request.Reason
	booking.DisputedAt = &now

	c.notify(&model.NotificationEvent{
		Kind:        model.EventBookingDisputed,
		RecipientID: booking.ProviderID,
		BookingID:   booking.ID,
		ActorID:     request.UserID,
		Reason:      request.Reason,
	})

	return converter.BookingToResponse(booking), nil
}

func (c *BookingUseCase) Detail(ctx context.Context, request *model.BookingActionRequest) (*model.BookingResponse, error) {
	booking, errObj := c.loadForParty(ctx, request, "Detail")
	if errObj != nil {
		return nil, errObj
	}
	if booking.PartyOf(request.UserID) == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this booking"
		c.Log.Error("booking-usecase", errObj.Message, "Detail", request.UserID)
		return nil, errObj
	}
	return converter.BookingToResponse(booking), nil
}

func (c *BookingUseCase) List(ctx context.Context, request *model.ListBookingsRequest) ([]model.BookingResponse, error) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, "List", utils.ConvertString(err))
		return nil, errObj
	}

	limit := request.Limit
	if limit == 0 {
		limit = 20
	}

	var bookings []entity.Booking
	var err error
	if request.Role == "provider" {
		bookings, err = c.BookingRepository.ListByProvider(ctx, request.UserID, request.Status, limit, request.Offset)
	} else {
		bookings, err = c.BookingRepository.ListByCustomer(ctx, request.UserID, request.Status, limit, request.Offset)
	}
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list bookings"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error list bookings: %v", err), "List", utils.ConvertString(err))
		return nil, errObj
	}

	return converter.BookingsToResponse(bookings), nil
}

// Delete removes a booking once its funds reached a terminal state. Live
// escrow can never be deleted out from under the ledger.
func (c *BookingUseCase) Delete(ctx context.Context, request *model.BookingActionRequest) error {
	booking, errObj := c.loadForParty(ctx, request, "Delete")
	if errObj != nil {
		return errObj
	}
	if booking.PartyOf(request.UserID) == "" {
		errObj := httpError.NewUnauthorized()
		errObj.Message = "you are not part of this booking"
		c.Log.Error("booking-usecase", errObj.Message, "Delete", request.UserID)
		return errObj
	}
	if !booking.PaymentTerminal() {
		errObj := httpError.NewConflict()
		errObj.Message = fmt.Sprintf("booking funds are still %s, settle before deleting", booking.PaymentStatus)
		c.Log.Error("booking-usecase", errObj.Message, "Delete", booking.PaymentStatus)
		return errObj
	}

	if err := c.BookingRepository.Delete(ctx, booking.ID); err != nil {
		if err == repository.ErrStateConflict {
			errObj := httpError.NewConflict()
			errObj.Message = "booking changed concurrently, please reload"
			return errObj
		}
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to delete booking"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error delete booking: %v", err), "Delete", utils.ConvertString(err))
		return errObj
	}

	return nil
}

func (c *BookingUseCase) loadForParty(ctx context.Context, request *model.BookingActionRequest, method string) (*entity.Booking, *httpError.CommonError) {
	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		c.Log.Error("booking-usecase", errObj.Message, method, utils.ConvertString(err))
		return nil, errObj
	}
	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		return nil, c.notFound(err, request.BookingID, method)
	}
	return booking, nil
}

func (c *BookingUseCase) notFound(err error, bookingID, method string) *httpError.CommonError {
	if err == repository.ErrBookingNotFound {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("booking %s not found", bookingID)
		c.Log.Error("booking-usecase", errObj.Message, method, bookingID)
		return errObj
	}
	errObj := httpError.NewInternalServerError()
	errObj.Message = "failed to load booking"
	c.Log.Error("booking-usecase", fmt.Sprintf("Error load booking: %v", err), method, utils.ConvertString(err))
	return errObj
}

func (c *BookingUseCase) settlementError(err error, method string) *httpError.CommonError {
	switch err {
	case repository.ErrHoldNotHeld:
		errObj := httpError.NewConflict().WithCode("ALREADY_RELEASED")
		errObj.Message = "funds for this booking were already settled"
		c.Log.Error("booking-usecase", errObj.Message, method, "hold-cas")
		return errObj
	case repository.ErrStateConflict:
		errObj := httpError.NewConflict()
		errObj.Message = "booking changed concurrently, please reload"
		c.Log.Error("booking-usecase", errObj.Message, method, "concurrent-update")
		return errObj
	default:
		errObj := httpError.NewInternalServerError()
		errObj.Message = "settlement failed"
		c.Log.Error("booking-usecase", fmt.Sprintf("Error settle booking: %v", err), method, utils.ConvertString(err))
		return errObj
	}
}

func (c *BookingUseCase) notify(event *model.NotificationEvent) {
	if c.NotificationProducer == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.OccurredAt = c.Now().UTC()
	if err := c.NotificationProducer.SendNotification(event); err != nil {
		metrics.IncNotifyFailure()
		c.Log.Warn("booking-usecase", "failed to publish notification", event.Kind, utils.ConvertString(err))
	}
}

// generateCompletionToken returns cmpl_ plus 32 url-safe characters from
// 24 bytes of crypto randomness.
func generateCompletionToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "cmpl_" + base64.RawURLEncoding.EncodeToString(buf), nil
}
