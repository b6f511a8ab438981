package model

import "time"

// Event kinds published to the booking-notifications topic.
const (
	EventBookingCreated          = "booking_created"
	EventBookingAccepted         = "booking_accepted"
	EventBookingRejected         = "booking_rejected"
	EventBookingCancelled        = "booking_cancelled"
	EventCheckinRecorded         = "checkin_recorded"
	EventBookingCompletedPending = "booking_completed_pending"
	EventBookingConfirmed        = "booking_confirmed"
	EventBookingDisputed         = "booking_disputed"
	EventBookingAutoReleased     = "booking_auto_released"
	EventCallRinging             = "call_ringing"
	EventCallMissed              = "call_missed"
	EventCallDeclined            = "call_declined"
	EventCallSettled             = "call_settled"
)

// NotificationEvent is keyed by recipient so one user's notifications stay
// ordered on a single partition.
type NotificationEvent struct {
	EventID     string    `json:"event_id"`
	Kind        string    `json:"kind"`
	RecipientID string    `json:"recipient_id"`
	BookingID   string    `json:"booking_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	Amount      int64     `json:"amount,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RoomID      string    `json:"room_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e *NotificationEvent) GetId() string {
	return e.RecipientID
}
