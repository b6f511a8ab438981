package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking_service",
			Name:      "bookings_created_total",
			Help:      "Bookings created by type.",
		},
		[]string{"type"},
	)

	settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking_service",
			Name:      "settlements_total",
			Help:      "Escrow settlements by outcome.",
		},
		[]string{"outcome"},
	)

	sweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "booking_service",
			Name:      "auto_release_sweeps_total",
			Help:      "Auto-release sweep executions.",
		},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "booking_service",
			Name:      "auto_release_sweep_seconds",
			Help:      "Auto-release sweep duration.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	notifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "booking_service",
			Name:      "notification_publish_failures_total",
			Help:      "Notification events that failed to publish.",
		},
	)
)

// Settlement outcome labels.
const (
	OutcomeReleased     = "released"
	OutcomeRefunded     = "refunded"
	OutcomeAutoReleased = "auto_released"
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated)
		prometheus.MustRegister(settlements)
		prometheus.MustRegister(sweepRuns)
		prometheus.MustRegister(sweepDuration)
		prometheus.MustRegister(notifyFailures)
	})
}

func IncBookingCreated(bookingType string) {
	bookingsCreated.WithLabelValues(bookingType).Inc()
}

func IncSettlement(outcome string) {
	settlements.WithLabelValues(outcome).Inc()
}

func ObserveSweep(d time.Duration) {
	sweepRuns.Inc()
	sweepDuration.Observe(d.Seconds())
}

func IncNotifyFailure() {
	notifyFailures.Inc()
}
