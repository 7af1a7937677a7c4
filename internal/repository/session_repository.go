// Package repository provides session persistence backends.
package repository

import (
	"context"
	"time"

	"github.com/eduflow/course-booking/internal/domain"
)

// SessionRepository stores login sessions keyed by token
type SessionRepository interface {
	// Create stores a session with the given TTL
	Create(ctx context.Context, session *domain.Session, ttl time.Duration) error
	// GetByToken returns the session for a token, domain.ErrSessionNotFoundAuth when absent
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes a session by token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// DeleteByUserID removes every session belonging to a user
	DeleteByUserID(ctx context.Context, userID string) error
}
