package ports

import (
	"context"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

type AuthService interface {
	// Login fails with domain.ErrInvalidCredentials regardless of whether the
	// username or the password was wrong.
	Login(ctx context.Context, username, password string) (*Session, *domain.User, error)
	// Authenticate resolves a session id to its user, or domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, sessionID string) (*domain.User, error)
	Logout(ctx context.Context, sessionID string) error
}
