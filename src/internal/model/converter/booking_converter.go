package converter

import (
	"booking-service/src/internal/entity"
	"booking-service/src/internal/model"
)

func BookingToResponse(booking *entity.Booking) *model.BookingResponse {
	resp := &model.BookingResponse{
		ID:              booking.ID,
		CustomerID:      booking.CustomerID,
		ProviderID:      booking.ProviderID,
		ServiceID:       booking.ServiceID,
		Type:            booking.Type,
		Price:           booking.Price,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		Status:          booking.Status,
		PaymentStatus:   booking.PaymentStatus,
		LocationLat:     booking.LocationLat,
		LocationLng:     booking.LocationLng,
		LocationAddress: booking.LocationAddress,
		TokenExpiresAt:  booking.TokenExpiresAt,
		AutoReleaseAt:   booking.AutoReleaseAt,
		DisputeReason:   booking.DisputeReason,
		CancelReason:    booking.CancelReason,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
	if booking.CustomerCheckinAt != nil {
		resp.CustomerCheckin = &model.CheckinView{
			At:        booking.CustomerCheckinAt,
			Latitude:  booking.CustomerCheckinLat,
			Longitude: booking.CustomerCheckinLng,
		}
	}
	if booking.ProviderCheckinAt != nil {
		resp.ProviderCheckin = &model.CheckinView{
			At:        booking.ProviderCheckinAt,
			Latitude:  booking.ProviderCheckinLat,
			Longitude: booking.ProviderCheckinLng,
		}
	}
	return resp
}

func BookingsToResponse(bookings []entity.Booking) []model.BookingResponse {
	responses := make([]model.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, *BookingToResponse(&bookings[i]))
	}
	return responses
}
