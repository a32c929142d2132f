package ports

import (
	"context"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

// UserInput is the inbound user shape. Password is plaintext and only lives
// until it is hashed.
type UserInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Roles    domain.Roles
}

// UserOutput is the outbound user shape. It never carries the password hash.
type UserOutput struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

// UserService orchestrates the user lifecycle. It performs no authorization;
// callers gate access by role.
type UserService interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, in UserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error

	ToOutput(u *domain.User) UserOutput
	ToOutputList(users []*domain.User) []UserOutput
	ToDomain(in UserInput) (*domain.User, error)
}
