package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
	"github.com/midshelf/midshelf-server/internal/validation"
)

// ItemService orchestrates item CRUD. Ratings are clamped rather than
// rejected, and an item's tag set is replaced wholesale on update.
type ItemService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(st *sqlite.Store, v *validation.Validator, logger *slog.Logger) *ItemService {
	return &ItemService{store: st, validator: v, logger: logger}
}

// List returns the account's items, newest first, honoring the filter.
func (s *ItemService) List(ctx context.Context, accountID int64, filter domain.ItemFilter) ([]*domain.Item, error) {
	return s.store.ListItems(ctx, accountID, filter)
}

// Get returns a single item with its tags.
func (s *ItemService) Get(ctx context.Context, id, accountID int64) (*domain.Item, error) {
	return s.store.GetItem(ctx, id, accountID)
}

// Create validates and stores a new item, resolving its tag names.
func (s *ItemService) Create(ctx context.Context, accountID int64, in domain.ItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	id, err := s.store.CreateItem(ctx, accountID, in)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	item, err := s.store.GetItem(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("load created item: %w", err)
	}

	s.logger.Info("item created", "account_id", accountID, "item_id", id, "name", in.Name)
	return item, nil
}

// Update validates and applies a full rewrite of the item, including its
// tag set.
func (s *ItemService) Update(ctx context.Context, id, accountID int64, in domain.ItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	if err := s.store.UpdateItem(ctx, id, accountID, in); err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("load updated item: %w", err)
	}

	s.logger.Info("item updated", "account_id", accountID, "item_id", id)
	return item, nil
}

// Delete removes the item and its tag links. The tags themselves survive.
func (s *ItemService) Delete(ctx context.Context, id, accountID int64) error {
	if err := s.store.DeleteItem(ctx, id, accountID); err != nil {
		return err
	}
	s.logger.Info("item deleted", "account_id", accountID, "item_id", id)
	return nil
}

// Count returns the number of items in the account.
func (s *ItemService) Count(ctx context.Context, accountID int64) (int64, error) {
	return s.store.CountItems(ctx, accountID)
}
