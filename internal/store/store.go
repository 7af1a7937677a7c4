// Package store provides typed access to the remote catalog store, a
// collection-style REST API exposing courses, bookings and users as JSON
// documents. The store owns all durable state; this service only holds
// transient copies fetched per operation.
package store

import (
	"context"

	"github.com/eduflow/course-booking/internal/domain"
)

// BookingFilter narrows a booking listing. Zero-value fields are ignored.
type BookingFilter struct {
	UserID   string
	CourseID string
}

// CourseStore provides access to the courses collection
type CourseStore interface {
	// List returns all courses, including soft-deleted ones
	List(ctx context.Context) ([]*domain.Course, error)

	// GetByID returns a course or domain.ErrCourseNotFound
	GetByID(ctx context.Context, id string) (*domain.Course, error)

	// Create stores a new course
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)

	// Update replaces the full course document. When the course carries a
	// version, the store rejects the write with domain.ErrVersionConflict
	// if the stored version no longer matches.
	Update(ctx context.Context, course *domain.Course) (*domain.Course, error)

	// Patch applies a partial update to a course document
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.Course, error)

	// Delete removes a course permanently
	Delete(ctx context.Context, id string) error
}

// BookingStore provides access to the bookings collection
type BookingStore interface {
	// List returns bookings matching the filter
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)

	// GetByID returns a booking or domain.ErrBookingNotFound
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// Create stores a new booking
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)

	// Delete removes a booking
	Delete(ctx context.Context, id string) error
}

// UserStore provides access to the users collection
type UserStore interface {
	// FindByEmail returns users matching the email; empty slice when none
	FindByEmail(ctx context.Context, email string) ([]*domain.User, error)

	// GetByID returns a user or domain.ErrUserNotFound
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// Create stores a new user
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// Patch applies a partial update to a user document
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error)
}
