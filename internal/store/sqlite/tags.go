package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, account_id, name, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt string

	err := scanner.Scan(
		&t.ID,
		&t.AccountID,
		&t.Name,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ListTags returns all tags for an account ordered by name.
func (s *Store) ListTags(ctx context.Context, accountID int64) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE account_id = ? ORDER BY name ASC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// SearchTags returns up to limit tags whose name contains the search term,
// for autocomplete. A zero limit defaults to 10.
func (s *Store) SearchTags(ctx context.Context, accountID int64, term string, limit int) ([]*domain.Tag, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags
		 WHERE account_id = ? AND name LIKE ?
		 ORDER BY name ASC LIMIT ?`,
		accountID, "%"+term+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// ResolveOrCreateTag finds an existing tag by case-insensitive name match or
// creates a new one, returning its id. The name is trimmed first; an empty
// result is store.ErrInvalidInput.
func (s *Store) ResolveOrCreateTag(ctx context.Context, accountID int64, name string) (int64, error) {
	return s.resolveOrCreateTag(ctx, s.db, accountID, name)
}

// resolveOrCreateTag is the querier-generic form, usable inside a
// transaction so a second lookup before commit never creates a second row.
func (s *Store) resolveOrCreateTag(ctx context.Context, q querier, accountID int64, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, store.ErrInvalidInput.WithMessage("tag name is empty")
	}

	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM tags WHERE account_id = ? AND name = ?`,
		accountID, trimmed).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO tags (account_id, name, created_at) VALUES (?, ?, ?)`,
		accountID, trimmed, formatTime(time.Now()))
	if err != nil {
		// Lost a race on the UNIQUE(account_id, name) index: re-select.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			selErr := q.QueryRowContext(ctx,
				`SELECT id FROM tags WHERE account_id = ? AND name = ?`,
				accountID, trimmed).Scan(&id)
			if selErr != nil {
				return 0, selErr
			}
			return id, nil
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ReplaceItemTags replaces all tags for an item in a single transaction.
// It deletes existing items_tags rows, resolves each name, and inserts the
// fresh set. Full replace, not a diff.
func (s *Store) ReplaceItemTags(ctx context.Context, itemID, accountID int64, names []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.replaceItemTags(ctx, tx, itemID, accountID, names)
	})
}

func (s *Store) replaceItemTags(ctx context.Context, tx *sql.Tx, itemID, accountID int64, names []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("delete items_tags: %w", err)
	}

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tagID, err := s.resolveOrCreateTag(ctx, tx, accountID, name)
		if err != nil {
			return fmt.Errorf("resolve tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO items_tags (item_id, tag_id) VALUES (?, ?)`,
			itemID, tagID); err != nil {
			return fmt.Errorf("insert items_tags: %w", err)
		}
	}

	return nil
}

// GetItemTags returns the tag names linked to an item, ordered by name.
func (s *Store) GetItemTags(ctx context.Context, itemID int64) ([]string, error) {
	return s.getItemTags(ctx, s.db, itemID)
}

func (s *Store) getItemTags(ctx context.Context, q querier, itemID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN items_tags it ON it.tag_id = t.id
		WHERE it.item_id = ?
		ORDER BY t.name ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query items_tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return names, nil
}
