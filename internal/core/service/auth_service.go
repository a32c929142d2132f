package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

// AuthService implements login, session resolution and logout.
type AuthService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	sessions   ports.SessionStore
	sessionTTL time.Duration
	logger     zerolog.Logger

	// dummyHash is compared against when the username is unknown, so every
	// failure path does the same bcrypt work.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) (*AuthService, error) {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:      users,
		hasher:     hasher,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
		dummyHash:  dummy,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	// Every failure path performs exactly one hash comparison.
	if user == nil {
		_ = s.hasher.Matches(password, s.dummyHash)
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Matches(password, user.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("login: create session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return session, user, nil
}

// Authenticate reloads the user on every call so role changes and deletions
// take effect on the next request.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, sessionID)
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
