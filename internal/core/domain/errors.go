package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")

	// ErrUserExists matches any uniqueness conflict on a user record.
	ErrUserExists     = errors.New("user already exists")
	ErrUsernameExists = fmt.Errorf("username already exists: %w", ErrUserExists)
	ErrEmailExists    = fmt.Errorf("email already exists: %w", ErrUserExists)

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrForbidden          = errors.New("access forbidden")

	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidPrice = errors.New("price must not be negative")
)
