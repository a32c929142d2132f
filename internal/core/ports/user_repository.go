package ports

import (
	"context"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByID and FindByUsername return domain.ErrUserNotFound on absence.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts the user only if neither username nor email is taken.
	// A conflict is reported as domain.ErrUsernameExists or domain.ErrEmailExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update overwrites the mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) error
}
