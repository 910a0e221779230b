package service

import (
	"context"
	"log/slog"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
)

// Default cap on tag search results for autocomplete.
const defaultTagSearchLimit = 10

// TagService exposes the account's tag vocabulary. Tags come into
// existence through items, not through this service; here they are only
// listed and searched.
type TagService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st *sqlite.Store, logger *slog.Logger) *TagService {
	return &TagService{store: st, logger: logger}
}

// List returns all of the account's tags ordered by name.
func (s *TagService) List(ctx context.Context, accountID int64) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, accountID)
}

// Search returns tags whose names contain the term, for autocomplete.
func (s *TagService) Search(ctx context.Context, accountID int64, term string, limit int) ([]*domain.Tag, error) {
	if limit <= 0 {
		limit = defaultTagSearchLimit
	}
	return s.store.SearchTags(ctx, accountID, term, limit)
}
