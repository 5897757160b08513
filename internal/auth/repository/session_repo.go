package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
)

const (
	sessionKeyPrefix  = "web:session:" // Key prefix for session data: web:session:{session_id}
	defaultSessionTTL = 7 * 24 * time.Hour
)

// SessionRepository handles Redis operations for browser sessions
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new SessionRepository. Sessions expire ttl
// after their last save or touch.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

// New returns a fresh, unsaved session with a random ID
func (r *SessionRepository) New() *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Get retrieves a session by its ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &s, nil
}

// Save writes the session and restarts its TTL
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	if s.ID == "" {
		return fmt.Errorf("session has no id")
	}
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, r.sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Touch restarts the TTL of an unchanged session
func (r *SessionRepository) Touch(ctx context.Context, id string) error {
	ok, err := r.client.Expire(ctx, r.sessionKey(id), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) sessionKey(id string) string {
	return sessionKeyPrefix + id
}
