package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

// SessionStore keeps sessions in Redis with a native TTL.
// Key format: session:<uuid> -> user id
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (*ports.Session, error) {
	if userID == "" {
		return nil, errors.New("session create: empty user id")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session create: invalid ttl %s", ttl)
	}

	id := uuid.NewString()
	// SetNX so a (practically impossible) uuid collision never hijacks a live session.
	ok, err := s.client.SetNX(ctx, s.key(id), userID, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	if !ok {
		return nil, errors.New("session create: id collision")
	}

	return &ports.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}, nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrSessionNotFound
	}

	userID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("session lookup: %w", err)
	}
	return userID, nil
}

// Delete is idempotent.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return "session:" + sessionID
}
