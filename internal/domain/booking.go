package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid checks if the status is a valid BookingStatus
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// Booking represents a seat booking on a course session.
// SessionID is the surrogate session identifier; SessionDate is kept for
// records created before sessions had IDs and must equal a session
// startDate in the referenced course.
type Booking struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	CourseID    string         `json:"courseId"`
	SessionID   string         `json:"sessionId,omitempty"`
	SessionDate string         `json:"sessionDate"`
	BookingDate time.Time      `json:"bookingDate"`
	Status      BookingStatus  `json:"status"`
	Format      DeliveryFormat `json:"format"`
}

// IsLive reports whether the booking still occupies a seat
func (b *Booking) IsLive() bool {
	return b.Status != BookingStatusCancelled
}

// Validate validates all booking fields
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(b.CourseID) == "" {
		return ErrInvalidCourseID
	}
	if strings.TrimSpace(b.SessionID) == "" && strings.TrimSpace(b.SessionDate) == "" {
		return ErrInvalidSessionDate
	}
	if !b.Status.IsValid() {
		return ErrInvalidBookingStatus
	}
	if b.Format != "" && !b.Format.IsValid() {
		return ErrInvalidFormat
	}
	return nil
}
