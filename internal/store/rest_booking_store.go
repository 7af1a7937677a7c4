package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/eduflow/course-booking/internal/domain"
)

// RESTBookingStore implements BookingStore against the catalog store REST API
type RESTBookingStore struct {
	client *Client
}

// NewRESTBookingStore creates a booking store backed by the REST client
func NewRESTBookingStore(client *Client) *RESTBookingStore {
	return &RESTBookingStore{client: client}
}

// List returns bookings matching the filter, using the store's query
// parameters (GET /bookings?userId=&courseId=)
func (s *RESTBookingStore) List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error) {
	query := url.Values{}
	if filter.UserID != "" {
		query.Set("userId", filter.UserID)
	}
	if filter.CourseID != "" {
		query.Set("courseId", filter.CourseID)
	}

	var bookings []*domain.Booking
	if err := s.client.getJSON(ctx, "/bookings", query, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// GetByID returns a single booking
func (s *RESTBookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := s.client.getJSON(ctx, "/bookings/"+id, nil, &booking); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Create stores a new booking
func (s *RESTBookingStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	var created domain.Booking
	if err := s.client.postJSON(ctx, "/bookings", booking, &created); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return &created, nil
}

// Delete removes a booking
func (s *RESTBookingStore) Delete(ctx context.Context, id string) error {
	if err := s.client.delete(ctx, "/bookings/"+id); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return domain.ErrBookingNotFound
		}
		return err
	}
	return nil
}
