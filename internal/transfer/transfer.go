// Package transfer implements the bulk transfer engine: per-account CSV
// item export/import and the administrative whole-database JSON backup.
package transfer

import (
	"context"
	"log/slog"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// Store is the persistence surface the transfer engine drives.
type Store interface {
	ListItems(ctx context.Context, accountID int64, filter domain.ItemFilter) ([]*domain.Item, error)
	ReplaceAccountItems(ctx context.Context, accountID int64, rows []domain.ImportItem) error
	DumpDatabase(ctx context.Context) (*store.Dump, error)
	RestoreDatabase(ctx context.Context, dump *store.Dump) error
}

// Engine performs bulk imports and exports against a Store.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// NewEngine creates a transfer engine.
func NewEngine(s Store, logger *slog.Logger) *Engine {
	return &Engine{store: s, logger: logger}
}
