package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
	"github.com/midshelf/midshelf-server/internal/validation"
)

// TaxonomyService manages categories and locations. Both share the same
// deletion policy: removing one detaches its items instead of deleting them.
type TaxonomyService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTaxonomyService creates a new taxonomy service.
func NewTaxonomyService(st *sqlite.Store, v *validation.Validator, logger *slog.Logger) *TaxonomyService {
	return &TaxonomyService{store: st, validator: v, logger: logger}
}

// ListCategories returns the account's categories ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context, accountID int64) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx, accountID)
}

// GetCategory returns a single category.
func (s *TaxonomyService) GetCategory(ctx context.Context, id, accountID int64) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id, accountID)
}

// CreateCategory validates and stores a new category, filling in the
// default icon and color if absent.
func (s *TaxonomyService) CreateCategory(ctx context.Context, accountID int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	in.ApplyDefaults()

	id, err := s.store.CreateCategory(ctx, accountID, in)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	category, err := s.store.GetCategory(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("load created category: %w", err)
	}

	s.logger.Info("category created", "account_id", accountID, "category_id", id, "name", in.Name)
	return category, nil
}

// UpdateCategory validates and rewrites the category.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id, accountID int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	in.ApplyDefaults()

	if err := s.store.UpdateCategory(ctx, id, accountID, in); err != nil {
		return nil, err
	}

	return s.store.GetCategory(ctx, id, accountID)
}

// DeleteCategory removes the category. Items in it are detached, not
// deleted.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id, accountID int64) error {
	if err := s.store.DeleteCategory(ctx, id, accountID); err != nil {
		return err
	}
	s.logger.Info("category deleted", "account_id", accountID, "category_id", id)
	return nil
}

// ListLocations returns the account's locations ordered by name.
func (s *TaxonomyService) ListLocations(ctx context.Context, accountID int64) ([]*domain.Location, error) {
	return s.store.ListLocations(ctx, accountID)
}

// GetLocation returns a single location.
func (s *TaxonomyService) GetLocation(ctx context.Context, id, accountID int64) (*domain.Location, error) {
	return s.store.GetLocation(ctx, id, accountID)
}

// CreateLocation validates and stores a new location.
func (s *TaxonomyService) CreateLocation(ctx context.Context, accountID int64, in domain.LocationInput) (*domain.Location, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	id, err := s.store.CreateLocation(ctx, accountID, in)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	location, err := s.store.GetLocation(ctx, id, accountID)
	if err != nil {
		return nil, fmt.Errorf("load created location: %w", err)
	}

	s.logger.Info("location created", "account_id", accountID, "location_id", id, "name", in.Name)
	return location, nil
}

// UpdateLocation validates and rewrites the location.
func (s *TaxonomyService) UpdateLocation(ctx context.Context, id, accountID int64, in domain.LocationInput) (*domain.Location, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	if err := s.store.UpdateLocation(ctx, id, accountID, in); err != nil {
		return nil, err
	}

	return s.store.GetLocation(ctx, id, accountID)
}

// DeleteLocation removes the location. Items stored there are detached,
// not deleted.
func (s *TaxonomyService) DeleteLocation(ctx context.Context, id, accountID int64) error {
	if err := s.store.DeleteLocation(ctx, id, accountID); err != nil {
		return err
	}
	s.logger.Info("location deleted", "account_id", accountID, "location_id", id)
	return nil
}
