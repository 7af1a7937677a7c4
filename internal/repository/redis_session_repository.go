package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/domain"
	pkgredis "github.com/eduflow/course-booking/pkg/redis"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// RedisSessionRepository implements SessionRepository using Redis.
// Sessions live under session:token:<token>; session:user:<id> tracks the
// tokens of a user so logout-everywhere can clean them up.
type RedisSessionRepository struct {
	client *pkgredis.Client
}

// NewRedisSessionRepository creates a new RedisSessionRepository
func NewRedisSessionRepository(client *pkgredis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

// Create stores a session with the given TTL
func (r *RedisSessionRepository) Create(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.session.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", session.UserID))

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	rdb := r.client.Client()
	pipe := rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(session.Token), data, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.Token)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetByToken returns the session for a token
func (r *RedisSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.session.get_by_token")
	defer span.End()

	data, err := r.client.Client().Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFoundAuth
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session by token
func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.session.delete")
	defer span.End()

	session, err := r.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFoundAuth) {
			return nil
		}
		return err
	}

	rdb := r.client.Client()
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.SRem(ctx, userSessionsKey(session.UserID), token)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteByUserID removes every session belonging to a user
func (r *RedisSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.redis.session.delete_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	rdb := r.client.Client()
	tokens, err := rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := rdb.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, userSessionsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

var _ SessionRepository = (*RedisSessionRepository)(nil)
