// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/metrics"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/pkg/logger"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// Sweeper removes bookings whose course or session no longer exists.
// Orphaned bookings never return seats: the session they pointed at is gone.
type Sweeper struct {
	courses  store.CourseStore
	bookings store.BookingStore
	interval time.Duration
	logger   *zap.Logger
}

// SweeperConfig contains configuration for the sweeper
type SweeperConfig struct {
	Interval time.Duration
}

// NewSweeper creates a new sweeper
func NewSweeper(courses store.CourseStore, bookings store.BookingStore, cfg SweeperConfig) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{
		courses:  courses,
		bookings: bookings,
		interval: interval,
		logger:   logger.Get().Named("sweeper"),
	}
}

// Start runs the sweep loop until the context is cancelled
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs a single pass and returns the number of bookings removed
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "worker.sweeper.sweep")
	defer span.End()

	bookings, err := s.bookings.List(ctx, store.BookingFilter{})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	// Courses are fetched once per pass, not per booking
	coursesByID := map[string]*domain.Course{}
	courses, err := s.courses.List(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	for _, c := range courses {
		coursesByID[c.ID] = c
	}

	removed := 0
	for _, b := range bookings {
		if !b.IsLive() {
			continue
		}
		if !s.isOrphan(b, coursesByID[b.CourseID]) {
			continue
		}

		if err := s.bookings.Delete(ctx, b.ID); err != nil {
			if !domain.IsNotFoundError(err) {
				s.logger.Warn("failed to remove orphaned booking",
					zap.String("booking_id", b.ID),
					zap.Error(err))
			}
			continue
		}

		s.logger.Info("removed orphaned booking",
			zap.String("booking_id", b.ID),
			zap.String("course_id", b.CourseID),
			zap.String("session_id", b.SessionID))
		removed++
	}

	if removed > 0 {
		metrics.RecordOrphanCancelled(ctx, int64(removed))
	}
	return removed, nil
}

func (s *Sweeper) isOrphan(b *domain.Booking, course *domain.Course) bool {
	if course == nil || course.IsDeleted {
		return true
	}
	return course.FindSession(b.SessionID, b.SessionDate) < 0
}
