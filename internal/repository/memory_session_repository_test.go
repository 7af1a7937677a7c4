package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eduflow/course-booking/internal/domain"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	session := &domain.Session{
		Token:     "tok-1",
		UserID:    "u1",
		User:      &domain.User{ID: "u1", Email: "anna@example.com"},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	t.Run("create and get", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		assert.NoError(t, repo.Create(ctx, session, time.Hour))

		got, err := repo.GetByToken(ctx, "tok-1")
		assert.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		_, err := repo.GetByToken(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFoundAuth)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		assert.NoError(t, repo.Create(ctx, session, -time.Second))

		_, err := repo.GetByToken(ctx, "tok-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFoundAuth)
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		assert.NoError(t, repo.Create(ctx, session, time.Hour))
		assert.NoError(t, repo.Delete(ctx, "tok-1"))

		_, err := repo.GetByToken(ctx, "tok-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFoundAuth)

		// deleting an unknown token is not an error
		assert.NoError(t, repo.Delete(ctx, "tok-1"))
	})

	t.Run("delete by user", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		assert.NoError(t, repo.Create(ctx, session, time.Hour))
		assert.NoError(t, repo.Create(ctx, &domain.Session{Token: "tok-2", UserID: "u1"}, time.Hour))
		assert.NoError(t, repo.Create(ctx, &domain.Session{Token: "tok-3", UserID: "u2"}, time.Hour))

		assert.NoError(t, repo.DeleteByUserID(ctx, "u1"))

		_, err := repo.GetByToken(ctx, "tok-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFoundAuth)
		_, err = repo.GetByToken(ctx, "tok-2")
		assert.ErrorIs(t, err, domain.ErrSessionNotFoundAuth)

		got, err := repo.GetByToken(ctx, "tok-3")
		assert.NoError(t, err)
		assert.Equal(t, "u2", got.UserID)
	})
}
