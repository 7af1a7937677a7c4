package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrDuplicateBooking     = errors.New("course already booked by this user")
	ErrBookingCreateFailed  = errors.New("failed to create booking")
	ErrCancellationFailed   = errors.New("failed to cancel booking")
	ErrSeatUpdateFailed     = errors.New("failed to update seat count")
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// Course errors
	ErrCourseNotFound        = errors.New("course not found")
	ErrSessionNotFound       = errors.New("session not found in course")
	ErrNoSeatsAvailable      = errors.New("no seats available for this session")
	ErrVersionConflict       = errors.New("course was modified concurrently")
	ErrInvalidCourseTitle    = errors.New("course title is required")
	ErrInvalidCourseDuration = errors.New("course duration cannot be negative")

	// User / session errors
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidPassword        = errors.New("invalid password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrSessionNotFoundAuth    = errors.New("login session not found")
	ErrSessionExpired         = errors.New("login session expired")
	ErrInvalidToken           = errors.New("invalid token")

	// Validation errors
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidCourseID    = errors.New("invalid course id")
	ErrInvalidBookingID   = errors.New("invalid booking id")
	ErrInvalidSessionDate = errors.New("session date or id is required")
	ErrInvalidFormat      = errors.New("invalid delivery format")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFoundAuth)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidCourseID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidSessionDate) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidBookingStatus) ||
		errors.Is(err, ErrInvalidCourseTitle) ||
		errors.Is(err, ErrInvalidCourseDuration)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrDuplicateBooking) ||
		errors.Is(err, ErrEmailAlreadyRegistered) ||
		errors.Is(err, ErrNoSeatsAvailable) ||
		errors.Is(err, ErrVersionConflict)
}

// IsAuthError checks if the error relates to authentication state
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrInvalidToken)
}
