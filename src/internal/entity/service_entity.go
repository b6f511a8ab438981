package entity

import "time"

const (
	ServiceKindDate = "date"
	ServiceKindCall = "call"
)

// ServiceOffering is what a provider sells: a fixed-price date package or a
// per-minute call line. CommissionRate is the platform cut in whole percent
// and is snapshotted per offering so later rate changes never touch bookings
// already priced against it.
type ServiceOffering struct {
	ID              string    `json:"id" db:"id"`
	ProviderID      string    `json:"provider_id" db:"provider_id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Kind            string    `json:"kind" db:"kind"`
	Price           int64     `json:"price" db:"price"`
	PerMinuteRate   int64     `json:"per_minute_rate" db:"per_minute_rate"`
	CommissionRate  int64     `json:"commission_rate" db:"commission_rate"`
	DurationMinutes int64     `json:"duration_minutes" db:"duration_minutes"`
	Active          bool      `json:"active" db:"active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
