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

// ItemService implements ports.ItemService.
type ItemService struct {
	repo   ports.ItemRepository
	logger zerolog.Logger
}

func NewItemService(repo ports.ItemRepository, logger zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger}
}

func (s *ItemService) FindAll(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.FindAll(ctx)
}

func (s *ItemService) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ItemService) FindByOwner(ctx context.Context, owner *domain.User) ([]*domain.Item, error) {
	if owner == nil || owner.ID == "" {
		return []*domain.Item{}, nil
	}
	return s.repo.FindByOwner(ctx, owner.ID)
}

func (s *ItemService) Search(ctx context.Context, substring string) ([]*domain.Item, error) {
	return s.repo.FindByNameContaining(ctx, substring)
}

// Create persists item as given. The caller sets OwnerID.
func (s *ItemService) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := domain.ValidatePrice(item.Price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info().Str("item_id", created.ID).Str("owner_id", created.OwnerID).Msg("item created")
	return created, nil
}

// Update checks existence first, then the ownership-or-admin rule, and only
// then overwrites name, description and price.
func (s *ItemService) Update(ctx context.Context, id string, in ports.ItemInput, actor *domain.User) (ports.ItemResult, error) {
	if err := domain.ValidatePrice(in.Price); err != nil {
		return ports.ItemResult{}, err
	}

	item, outcome, err := s.authorize(ctx, id, actor)
	if err != nil || outcome != ports.OutcomeApplied {
		return ports.ItemResult{Outcome: outcome}, err
	}

	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return ports.ItemResult{Outcome: ports.OutcomeNotFound}, nil
		}
		return ports.ItemResult{}, fmt.Errorf("update item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Str("actor_id", actor.ID).Msg("item updated")
	return ports.ItemResult{Outcome: ports.OutcomeApplied, Item: updated}, nil
}

// Delete applies the same rule as Update. A missing item is NotFound for
// every caller.
func (s *ItemService) Delete(ctx context.Context, id string, actor *domain.User) (ports.Outcome, error) {
	_, outcome, err := s.authorize(ctx, id, actor)
	if err != nil || outcome != ports.OutcomeApplied {
		return outcome, err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return ports.OutcomeNotFound, nil
		}
		return 0, fmt.Errorf("delete item: %w", err)
	}

	s.logger.Info().Str("item_id", id).Str("actor_id", actor.ID).Msg("item deleted")
	return ports.OutcomeApplied, nil
}

func (s *ItemService) authorize(ctx context.Context, id string, actor *domain.User) (*domain.Item, ports.Outcome, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, ports.OutcomeNotFound, nil
		}
		return nil, 0, fmt.Errorf("load item: %w", err)
	}

	if !item.CanBeModifiedBy(actor) {
		actorID := ""
		if actor != nil {
			actorID = actor.ID
		}
		s.logger.Warn().Str("item_id", id).Str("actor_id", actorID).Msg("item mutation denied")
		return item, ports.OutcomeForbidden, nil
	}
	return item, ports.OutcomeApplied, nil
}

func (s *ItemService) ToOutput(item *domain.Item) ports.ItemOutput {
	return ports.ItemOutput{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (s *ItemService) ToOutputList(items []*domain.Item) []ports.ItemOutput {
	out := make([]ports.ItemOutput, len(items))
	for i, item := range items {
		out[i] = s.ToOutput(item)
	}
	return out
}

// ToDomain builds an unsaved, ownerless item from input.
func (s *ItemService) ToDomain(in ports.ItemInput) *domain.Item {
	return &domain.Item{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	}
}
