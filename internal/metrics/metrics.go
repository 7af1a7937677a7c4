// Package metrics holds the service's OpenTelemetry counters.
package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/eduflow/course-booking/pkg/telemetry"
)

var (
	// Booking counters
	BookingsCreated   *telemetry.Counter
	BookingsFailed    *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	SeatUpdateRetries *telemetry.Counter
	BookingDuration   *telemetry.Histogram

	// Auth counters
	LoginsTotal   *telemetry.Counter
	LoginsFailed  *telemetry.Counter
	Registrations *telemetry.Counter

	// Sweeper counters
	OrphansCancelled *telemetry.Counter

	initOnce sync.Once
	initErr  error
)

// Init initializes all metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_creations_total",
		Description: "Total number of bookings created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_failures_total",
		Description: "Total number of failed booking attempts",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_cancellations_total",
		Description: "Total number of cancelled bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SeatUpdateRetries, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "seat_update_retries_total",
		Description: "Total number of seat update retries after version conflicts",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "booking_duration_seconds",
		Description: "Time spent creating a booking, including seat updates",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	LoginsTotal, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "logins_total",
		Description: "Total number of successful logins",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	LoginsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "login_failures_total",
		Description: "Total number of failed login attempts",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	Registrations, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "registrations_total",
		Description: "Total number of registered users",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OrphansCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "orphan_bookings_cancelled_total",
		Description: "Total number of orphaned bookings cancelled by the sweeper",
		Unit:        "1",
	})
	return err
}

// RecordBookingCreated records a successful booking creation
func RecordBookingCreated(ctx context.Context) {
	if BookingsCreated != nil {
		BookingsCreated.Inc(ctx)
	}
}

// RecordBookingFailed records a failed booking attempt
func RecordBookingFailed(ctx context.Context, reason string) {
	if BookingsFailed != nil {
		BookingsFailed.Inc(ctx, attribute.String("reason", reason))
	}
}

// RecordBookingCancelled records a booking cancellation
func RecordBookingCancelled(ctx context.Context) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx)
	}
}

// RecordBookingDuration records how long a booking attempt took
func RecordBookingDuration(ctx context.Context, seconds float64, outcome string) {
	if BookingDuration != nil {
		BookingDuration.Record(ctx, seconds, attribute.String("outcome", outcome))
	}
}

// RecordSeatUpdateRetry records a seat update retry after a version conflict
func RecordSeatUpdateRetry(ctx context.Context) {
	if SeatUpdateRetries != nil {
		SeatUpdateRetries.Inc(ctx)
	}
}

// RecordLogin records a login attempt
func RecordLogin(ctx context.Context, success bool) {
	if success {
		if LoginsTotal != nil {
			LoginsTotal.Inc(ctx)
		}
		return
	}
	if LoginsFailed != nil {
		LoginsFailed.Inc(ctx)
	}
}

// RecordRegistration records a successful registration
func RecordRegistration(ctx context.Context) {
	if Registrations != nil {
		Registrations.Inc(ctx)
	}
}

// RecordOrphanCancelled records orphaned bookings cancelled by the sweeper
func RecordOrphanCancelled(ctx context.Context, count int64) {
	if OrphansCancelled != nil {
		OrphansCancelled.Add(ctx, count)
	}
}
