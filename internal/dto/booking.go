package dto

import "github.com/eduflow/course-booking/internal/domain"

// BookCourseRequest represents the booking payload. SessionID selects the
// scheduled date; SessionDate is accepted as a fallback for clients that
// only know the date.
type BookCourseRequest struct {
	CourseID    string `json:"courseId" binding:"required"`
	SessionID   string `json:"sessionId"`
	SessionDate string `json:"sessionDate"`
	Format      string `json:"format" binding:"required"`
}

// BookingResponse pairs a booking with a seat-update warning when the seat
// decrement could not be persisted.
type BookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Warning string          `json:"warning,omitempty"`
}

// BookingDetail is a booking joined with its course for listing views.
// Course is nil when the course no longer exists.
type BookingDetail struct {
	*domain.Booking
	Course *domain.Course `json:"course,omitempty"`
}
