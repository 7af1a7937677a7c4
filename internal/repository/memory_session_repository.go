package repository

import (
	"context"
	"sync"
	"time"

	"github.com/eduflow/course-booking/internal/domain"
)

// MemorySessionRepository is an in-memory SessionRepository used in tests
// and local development without Redis.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	expiry   map[string]time.Time
}

// NewMemorySessionRepository creates a new MemorySessionRepository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*domain.Session),
		expiry:   make(map[string]time.Time),
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.Token] = &copied
	r.expiry[session.Token] = time.Now().Add(ttl)
	return nil
}

func (r *MemorySessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFoundAuth
	}
	if exp, ok := r.expiry[token]; ok && time.Now().After(exp) {
		return nil, domain.ErrSessionNotFoundAuth
	}

	copied := *session
	return &copied, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	delete(r.expiry, token)
	return nil
}

func (r *MemorySessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
			delete(r.expiry, token)
		}
	}
	return nil
}

var _ SessionRepository = (*MemorySessionRepository)(nil)
