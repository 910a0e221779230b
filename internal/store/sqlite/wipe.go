package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// WipeAccount deletes all catalog data for one account in a single
// transaction: bridge rows first (via the account's item id set), then
// items, tags, categories, locations. Items go before the taxonomy tables
// because they hold the foreign keys into them. The account row itself,
// its settings, and its sessions survive.
func (s *Store) WipeAccount(ctx context.Context, accountID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.wipeAccount(ctx, tx, accountID)
	})
}

// wipeAccount is the tx-scoped form, shared with the CSV import path so the
// wipe and the re-population commit or roll back together.
func (s *Store) wipeAccount(ctx context.Context, tx *sql.Tx, accountID int64) error {
	steps := []struct {
		desc  string
		query string
	}{
		{"delete items_tags", `DELETE FROM items_tags WHERE item_id IN (SELECT id FROM items WHERE account_id = ?)`},
		{"delete items", `DELETE FROM items WHERE account_id = ?`},
		{"delete tags", `DELETE FROM tags WHERE account_id = ?`},
		{"delete categories", `DELETE FROM categories WHERE account_id = ?`},
		{"delete locations", `DELETE FROM locations WHERE account_id = ?`},
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, accountID); err != nil {
			return fmt.Errorf("%s: %w", step.desc, err)
		}
	}
	return nil
}
