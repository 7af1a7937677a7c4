package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/eduflow/course-booking/internal/domain"
)

// RESTUserStore implements UserStore against the catalog store REST API
type RESTUserStore struct {
	client *Client
}

// NewRESTUserStore creates a user store backed by the REST client
func NewRESTUserStore(client *Client) *RESTUserStore {
	return &RESTUserStore{client: client}
}

// FindByEmail returns users matching the email (GET /users?email=)
func (s *RESTUserStore) FindByEmail(ctx context.Context, email string) ([]*domain.User, error) {
	query := url.Values{}
	query.Set("email", email)

	var users []*domain.User
	if err := s.client.getJSON(ctx, "/users", query, &users); err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return users, nil
}

// GetByID returns a single user
func (s *RESTUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.client.getJSON(ctx, "/users/"+id, nil, &user); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create stores a new user
func (s *RESTUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created domain.User
	if err := s.client.postJSON(ctx, "/users", user, &created); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

// Patch applies a partial update to a user document
func (s *RESTUserStore) Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error) {
	var patched domain.User
	if err := s.client.patchJSON(ctx, "/users/"+id, fields, &patched); err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsNotFound() {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &patched, nil
}
