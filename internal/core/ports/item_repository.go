package ports

import (
	"context"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

// ItemRepository is the item store.
type ItemRepository interface {
	FindAll(ctx context.Context) ([]*domain.Item, error)
	// FindByID returns domain.ErrItemNotFound on absence.
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error)
	// FindByNameContaining matches name case-insensitively; substring is literal.
	FindByNameContaining(ctx context.Context, substring string) ([]*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	// Update overwrites name, description and price. Returns
	// domain.ErrItemNotFound when the item vanished.
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	DeleteByID(ctx context.Context, id string) error
}
