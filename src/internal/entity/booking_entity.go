package entity

import "time"

const (
	BookingTypeDate = "date"
	BookingTypeCall = "call"
)

// Date-booking statuses.
const (
	StatusPending              = "pending"
	StatusConfirmed            = "confirmed"
	StatusInProgress           = "in_progress"
	StatusAwaitingConfirmation = "awaiting_confirmation"
	StatusCompleted            = "completed"
	StatusCancelled            = "cancelled"
	StatusRejected             = "rejected"
	StatusDisputed             = "disputed"
)

// Call-booking statuses. Completed/cancelled are shared with the date flow.
const (
	StatusReadyToCall = "ready_to_call"
	StatusRinging     = "ringing"
	StatusConnecting  = "connecting"
	StatusInCall      = "in_call"
	StatusMissed      = "missed"
)

const (
	PaymentPending        = "pending"
	PaymentHeld           = "held"
	PaymentPendingRelease = "pending_release"
	PaymentReleased       = "released"
	PaymentRefunded       = "refunded"
)

const (
	PartyCustomer = "customer"
	PartyProvider = "provider"
)

// Booking is the persisted aggregate for both date bookings and metered
// call bookings; Type selects the code path. All mutations go through the
// state-machine operations in the usecase layer, and every transition that
// moves money shares a database transaction with the ledger write.
type Booking struct {
	ID         string `db:"id"`
	CustomerID string `db:"customer_id"`
	ProviderID string `db:"provider_id"`
	ServiceID  string `db:"service_id"`
	Type       string `db:"type"`

	// Price is fixed at creation for date bookings; for calls it is
	// finalized to the metered cost when the call ends.
	Price int64 `db:"price"`

	StartTime *time.Time `db:"start_time"`
	EndTime   *time.Time `db:"end_time"`

	Status        string `db:"status"`
	PaymentStatus string `db:"payment_status"`

	HoldTransactionID    *string `db:"hold_transaction_id"`
	ReleaseTransactionID *string `db:"release_transaction_id"`

	LocationLat     *float64 `db:"location_lat"`
	LocationLng     *float64 `db:"location_lng"`
	LocationAddress string   `db:"location_address"`

	CustomerCheckinAt  *time.Time `db:"customer_checkin_at"`
	CustomerCheckinLat *float64   `db:"customer_checkin_lat"`
	CustomerCheckinLng *float64   `db:"customer_checkin_lng"`
	ProviderCheckinAt  *time.Time `db:"provider_checkin_at"`
	ProviderCheckinLat *float64   `db:"provider_checkin_lat"`
	ProviderCheckinLng *float64   `db:"provider_checkin_lng"`

	CompletionToken *string    `db:"completion_token"`
	TokenExpiresAt  *time.Time `db:"token_expires_at"`
	AutoReleaseAt   *time.Time `db:"auto_release_at"`

	DisputeReason string     `db:"dispute_reason"`
	DisputedAt    *time.Time `db:"disputed_at"`
	CancelReason  string     `db:"cancel_reason"`

	// Call-only fields.
	CallScheduledAt *time.Time `db:"call_scheduled_at"`
	CallRoomID      *string    `db:"call_room_id"`
	CallStartedAt   *time.Time `db:"call_started_at"`
	CallEndedAt     *time.Time `db:"call_ended_at"`
	DurationMinutes int64      `db:"duration_minutes"`
	PerMinuteRate   int64      `db:"per_minute_rate"`
	HoldAmount      int64      `db:"hold_amount"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PartyOf reports which side of the booking the user is on, or "" when the
// user is neither party.
func (b *Booking) PartyOf(userID string) string {
	switch userID {
	case b.CustomerID:
		return PartyCustomer
	case b.ProviderID:
		return PartyProvider
	default:
		return ""
	}
}

// PaymentTerminal reports whether funds for this booking reached a final
// state; only then may the booking be deleted.
func (b *Booking) PaymentTerminal() bool {
	return b.PaymentStatus == PaymentReleased || b.PaymentStatus == PaymentRefunded
}
