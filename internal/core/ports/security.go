package ports

import (
	"context"
	"time"
)

// PasswordHasher hashes and verifies credentials. Hashes are self-describing
// (algorithm, cost and salt embedded).
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}

// Session is an authenticated identity bound to an opaque id.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// SessionStore keeps server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	// Lookup returns the user ID behind a session, or domain.ErrSessionNotFound.
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
