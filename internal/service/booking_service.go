// Package service implements the booking, catalog, and auth workflows.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/metrics"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/pkg/logger"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// BookingService defines the booking workflow operations
type BookingService interface {
	// BookCourse books a seat on a course session for a user. When the
	// booking is created but the seat count could not be persisted, the
	// booking is returned together with domain.ErrSeatUpdateFailed.
	BookCourse(ctx context.Context, userID string, req *dto.BookCourseRequest) (*domain.Booking, error)

	// CancelBooking deletes a user's booking and returns the seat
	CancelBooking(ctx context.Context, userID, bookingID string) error

	// GetUserBookings lists a user's bookings joined with course details
	GetUserBookings(ctx context.Context, userID string) ([]*dto.BookingDetail, error)

	// GetBooking returns a single booking owned by the user
	GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
}

// BookingServiceConfig contains configuration for the booking service
type BookingServiceConfig struct {
	// AllowOverbooking permits bookings on sessions with no seats left
	AllowOverbooking bool
	// MaxUpdateRetries bounds the seat update retry loop on version conflicts
	MaxUpdateRetries int
}

type bookingService struct {
	courses   store.CourseStore
	bookings  store.BookingStore
	publisher EventPublisher
	config    BookingServiceConfig
	logger    *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(courses store.CourseStore, bookings store.BookingStore, publisher EventPublisher, cfg BookingServiceConfig) BookingService {
	if cfg.MaxUpdateRetries <= 0 {
		cfg.MaxUpdateRetries = 3
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		courses:   courses,
		bookings:  bookings,
		publisher: publisher,
		config:    cfg,
		logger:    logger.Get().Named("booking_service"),
	}
}

// BookCourse books a seat on a course session
func (s *bookingService) BookCourse(ctx context.Context, userID string, req *dto.BookCourseRequest) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.book_course")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("course_id", req.CourseID),
	)

	start := time.Now()

	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if req.CourseID == "" {
		return nil, domain.ErrInvalidCourseID
	}
	if req.SessionID == "" && req.SessionDate == "" {
		return nil, domain.ErrInvalidSessionDate
	}
	format := domain.DeliveryFormat(req.Format)
	if !format.IsValid() {
		return nil, domain.ErrInvalidFormat
	}

	// One live booking per user per course
	existing, err := s.bookings.List(ctx, store.BookingFilter{UserID: userID, CourseID: req.CourseID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to check existing bookings: %w", err)
	}
	for _, b := range existing {
		if b.IsLive() {
			return nil, domain.ErrDuplicateBooking
		}
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	if course.IsDeleted {
		return nil, domain.ErrCourseNotFound
	}
	if !course.OffersFormat(format) {
		return nil, domain.ErrInvalidFormat
	}

	sessionID := req.SessionID
	sessionDate := req.SessionDate
	idx := course.FindSession(req.SessionID, req.SessionDate)
	if idx >= 0 {
		session := course.ScheduledDates[idx]
		sessionID = session.ID
		sessionDate = session.StartDate
		if !s.config.AllowOverbooking && session.AvailableSeats <= 0 {
			metrics.RecordBookingFailed(ctx, "no_seats")
			return nil, domain.ErrNoSeatsAvailable
		}
	} else if req.SessionID != "" {
		return nil, domain.ErrSessionNotFound
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		CourseID:    req.CourseID,
		SessionID:   sessionID,
		SessionDate: sessionDate,
		BookingDate: time.Now().UTC(),
		Status:      domain.BookingStatusConfirmed,
		Format:      format,
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordBookingFailed(ctx, "create_failed")
		metrics.RecordBookingDuration(ctx, time.Since(start).Seconds(), "create_failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrBookingCreateFailed, err)
	}
	metrics.RecordBookingCreated(ctx)

	if err := s.publisher.PublishBookingCreated(ctx, created); err != nil {
		s.logger.Warn("failed to publish booking created event",
			zap.String("booking_id", created.ID),
			zap.Error(err))
	}

	if err := s.adjustSeats(ctx, created.CourseID, created.SessionID, created.SessionDate, -1); err != nil {
		s.logger.Error("booking created but seat update failed",
			zap.String("booking_id", created.ID),
			zap.String("course_id", created.CourseID),
			zap.Error(err))
		span.RecordError(err)
		metrics.RecordBookingDuration(ctx, time.Since(start).Seconds(), "seat_update_failed")
		return created, domain.ErrSeatUpdateFailed
	}

	span.SetAttributes(attribute.String("booking_id", created.ID))
	metrics.RecordBookingDuration(ctx, time.Since(start).Seconds(), "created")
	return created, nil
}

// CancelBooking deletes a booking and returns the seat to the session
func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel_booking")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("booking_id", bookingID),
	)

	if bookingID == "" {
		return domain.ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to fetch booking: %w", err)
	}
	if userID != "" && booking.UserID != userID {
		return domain.ErrBookingNotFound
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if domain.IsNotFoundError(err) {
			return domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %v", domain.ErrCancellationFailed, err)
	}
	metrics.RecordBookingCancelled(ctx)

	cancelled := *booking
	cancelled.Status = domain.BookingStatusCancelled
	if err := s.publisher.PublishBookingCancelled(ctx, &cancelled); err != nil {
		s.logger.Warn("failed to publish booking cancelled event",
			zap.String("booking_id", bookingID),
			zap.Error(err))
	}

	// Seat return is best effort. The booking is already gone; a missing
	// course or session just means there is no seat to give back.
	if err := s.adjustSeats(ctx, booking.CourseID, booking.SessionID, booking.SessionDate, 1); err != nil {
		s.logger.Warn("cancelled booking but seat return failed",
			zap.String("booking_id", bookingID),
			zap.String("course_id", booking.CourseID),
			zap.Error(err))
	}

	return nil
}

// GetUserBookings lists a user's bookings joined with their courses
func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]*dto.BookingDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_user_bookings")
	defer span.End()

	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}

	bookings, err := s.bookings.List(ctx, store.BookingFilter{UserID: userID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	details := make([]*dto.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		detail := &dto.BookingDetail{Booking: b}
		course, err := s.courses.GetByID(ctx, b.CourseID)
		if err == nil {
			detail.Course = course
		} else if !domain.IsNotFoundError(err) {
			s.logger.Warn("failed to fetch course for booking",
				zap.String("booking_id", b.ID),
				zap.String("course_id", b.CourseID),
				zap.Error(err))
		}
		details = append(details, detail)
	}

	return details, nil
}

// GetBooking returns a single booking owned by the user
func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.get_booking")
	defer span.End()

	if bookingID == "" {
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if userID != "" && booking.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}

	return booking, nil
}

// adjustSeats applies a seat delta to a session with a re-fetch retry loop
// on version conflicts. Only the target session changes.
func (s *bookingService) adjustSeats(ctx context.Context, courseID, sessionID, sessionDate string, delta int) error {
	var lastErr error

	for attempt := 0; attempt < s.config.MaxUpdateRetries; attempt++ {
		course, err := s.courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}

		idx := course.FindSession(sessionID, sessionDate)
		if idx < 0 {
			return nil
		}

		seats := course.ScheduledDates[idx].AvailableSeats + delta
		if seats < 0 && !s.config.AllowOverbooking {
			// A concurrent booking drained the session after the
			// pre-check. Restoring a seat clamps silently; consuming
			// one must not look like success.
			if delta < 0 {
				return domain.ErrNoSeatsAvailable
			}
			return nil
		}
		course.ScheduledDates[idx].AvailableSeats = seats

		_, err = s.courses.Update(ctx, course)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		metrics.RecordSeatUpdateRetry(ctx)
	}

	return lastErr
}
