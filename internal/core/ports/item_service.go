package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

// ItemInput is the inbound item shape.
type ItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// ItemOutput is the outbound item shape.
type ItemOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Outcome is the result of an ownership-gated mutation.
type Outcome int

const (
	OutcomeApplied Outcome = iota + 1
	OutcomeNotFound
	OutcomeForbidden
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Err maps a non-applied outcome to its domain error; Applied maps to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeApplied:
		return nil
	case OutcomeNotFound:
		return domain.ErrItemNotFound
	case OutcomeForbidden:
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// ItemResult carries the outcome of Update and, when applied, the new state.
type ItemResult struct {
	Outcome Outcome
	Item    *domain.Item
}

// ItemService orchestrates items. Reads are ungated; Update and Delete apply
// the ownership-or-admin rule against the explicit acting user.
type ItemService interface {
	FindAll(ctx context.Context) ([]*domain.Item, error)
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	FindByOwner(ctx context.Context, owner *domain.User) ([]*domain.Item, error)
	Search(ctx context.Context, substring string) ([]*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, id string, in ItemInput, actor *domain.User) (ItemResult, error)
	Delete(ctx context.Context, id string, actor *domain.User) (Outcome, error)

	ToOutput(item *domain.Item) ItemOutput
	ToOutputList(items []*domain.Item) []ItemOutput
	ToDomain(in ItemInput) *domain.Item
}
