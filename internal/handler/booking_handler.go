// Package handler exposes the HTTP API.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/pkg/response"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookCourse handles POST /bookings
func (h *BookingHandler) BookCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.book_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.BookCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("course_id", req.CourseID),
	)

	booking, err := h.bookingService.BookCourse(ctx, userID, &req)
	if err != nil {
		// The booking exists even though the seat count was not persisted
		if errors.Is(err, domain.ErrSeatUpdateFailed) && booking != nil {
			span.RecordError(err)
			response.Created(c, &dto.BookingResponse{
				Booking: booking,
				Warning: "booking confirmed but seat count could not be updated",
			})
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, &dto.BookingResponse{Booking: booking})
}

// CancelBooking handles DELETE /bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel_booking")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("booking_id", bookingID),
	)

	// Admins can cancel anyone's booking
	if c.GetBool("is_admin") {
		userID = ""
	}

	if err := h.bookingService.CancelBooking(ctx, userID, bookingID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{"cancelled": true})
}

// ListMyBookings handles GET /bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_my_bookings")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookings, err := h.bookingService.GetUserBookings(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(bookings)))
	response.Success(c, bookings)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get_booking")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID := c.GetString("user_id")
	if userID == "" {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}
	if c.GetBool("is_admin") {
		userID = ""
	}

	booking, err := h.bookingService.GetBooking(ctx, userID, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.handleError(c, err)
		return
	}

	response.Success(c, booking)
}

func (h *BookingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateBooking):
		response.Conflict(c, "DUPLICATE_BOOKING", err.Error())
	case errors.Is(err, domain.ErrNoSeatsAvailable):
		response.Conflict(c, "NO_SEATS_AVAILABLE", err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrCancellationFailed),
		errors.Is(err, domain.ErrBookingCreateFailed):
		response.BadGateway(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
