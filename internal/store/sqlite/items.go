package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// itemSelect is the denormalized item query shared by ListItems and GetItem.
// Tag names are aggregated server-side and split back into a list on scan.
const itemSelect = `
	SELECT
		i.id, i.account_id, i.name, i.description, i.link,
		i.category_id, i.location_id, i.rating, i.created_at, i.updated_at,
		c.name, c.icon, c.color,
		l.name,
		GROUP_CONCAT(t.name)
	FROM items i
	LEFT JOIN categories c ON i.category_id = c.id
	LEFT JOIN locations l ON i.location_id = l.id
	LEFT JOIN items_tags it ON i.id = it.item_id
	LEFT JOIN tags t ON it.tag_id = t.id`

// scanItem scans a denormalized item row.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var i domain.Item

	var (
		description   sql.NullString
		link          sql.NullString
		categoryID    sql.NullInt64
		locationID    sql.NullInt64
		createdAt     string
		updatedAt     string
		categoryName  sql.NullString
		categoryIcon  sql.NullString
		categoryColor sql.NullString
		locationName  sql.NullString
		tagList       sql.NullString
	)

	err := scanner.Scan(
		&i.ID,
		&i.AccountID,
		&i.Name,
		&description,
		&link,
		&categoryID,
		&locationID,
		&i.Rating,
		&createdAt,
		&updatedAt,
		&categoryName,
		&categoryIcon,
		&categoryColor,
		&locationName,
		&tagList,
	)
	if err != nil {
		return nil, err
	}

	i.Description = description.String
	i.Link = link.String
	i.CategoryID = int64Ptr(categoryID)
	i.LocationID = int64Ptr(locationID)
	i.CategoryName = categoryName.String
	i.CategoryIcon = categoryIcon.String
	i.CategoryColor = categoryColor.String
	i.LocationName = locationName.String

	i.Tags = splitTagList(tagList.String)

	i.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	i.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &i, nil
}

// splitTagList converts a GROUP_CONCAT result into a sorted tag list.
// GROUP_CONCAT order follows the join, so sort here for stable output.
func splitTagList(joined string) []string {
	if joined == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}

// ListItems returns the account's items, most recently created first,
// optionally narrowed by category, exact tag name, and a row limit.
func (s *Store) ListItems(ctx context.Context, accountID int64, filter domain.ItemFilter) ([]*domain.Item, error) {
	query := itemSelect + ` WHERE i.account_id = ?`
	args := []any{accountID}

	if filter.CategoryID != nil {
		query += ` AND i.category_id = ?`
		args = append(args, *filter.CategoryID)
	}

	if filter.TagName != "" {
		// The tags.name column collates NOCASE; the filter stays
		// case-sensitive, so force a binary comparison here.
		query += ` AND EXISTS (
			SELECT 1 FROM items_tags fit
			JOIN tags ft ON fit.tag_id = ft.id
			WHERE fit.item_id = i.id AND ft.name = ? COLLATE BINARY)`
		args = append(args, filter.TagName)
	}

	query += ` GROUP BY i.id ORDER BY i.created_at DESC, i.id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Item{}
	}

	return items, nil
}

// GetItem retrieves a single denormalized item, scoped to the account.
// Returns store.ErrNotFound if absent or owned by another account.
func (s *Store) GetItem(ctx context.Context, id, accountID int64) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		itemSelect+` WHERE i.id = ? AND i.account_id = ? GROUP BY i.id`,
		id, accountID)

	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// CreateItem inserts an item together with its tag set in one transaction.
// The rating is clamped to [0,5] before storage. Returns the new id.
func (s *Store) CreateItem(ctx context.Context, accountID int64, in domain.ItemInput) (int64, error) {
	var itemID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.checkItemRefs(ctx, tx, accountID, in); err != nil {
			return err
		}

		now := formatTime(time.Now())
		res, err := tx.ExecContext(ctx, `
			INSERT INTO items (account_id, name, description, link, category_id, location_id, rating, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			accountID,
			in.Name,
			nullString(in.Description),
			nullString(in.Link),
			nullInt64Ptr(in.CategoryID),
			nullInt64Ptr(in.LocationID),
			domain.ClampRating(in.Rating),
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		itemID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		return s.replaceItemTags(ctx, tx, itemID, accountID, in.Tags)
	})
	if err != nil {
		return 0, err
	}
	return itemID, nil
}

// UpdateItem updates an item's fields and fully replaces its tag set in one
// transaction. Returns store.ErrNotFound when no row matched.
func (s *Store) UpdateItem(ctx context.Context, id, accountID int64, in domain.ItemInput) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.checkItemRefs(ctx, tx, accountID, in); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE items
			SET name = ?, description = ?, link = ?, category_id = ?, location_id = ?, rating = ?, updated_at = ?
			WHERE id = ? AND account_id = ?`,
			in.Name,
			nullString(in.Description),
			nullString(in.Link),
			nullInt64Ptr(in.CategoryID),
			nullInt64Ptr(in.LocationID),
			domain.ClampRating(in.Rating),
			formatTime(time.Now()),
			id,
			accountID,
		)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}

		return s.replaceItemTags(ctx, tx, id, accountID, in.Tags)
	})
}

// DeleteItem removes an item and its bridge rows in one transaction.
// Tags that become unreferenced are kept; they persist independent of usage.
// Returns store.ErrNotFound when no row matched.
func (s *Store) DeleteItem(ctx context.Context, id, accountID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Scope the join delete through the account check so a foreign
		// item id cannot shed another account's bridge rows.
		var owned int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM items WHERE id = ? AND account_id = ?`,
			id, accountID).Scan(&owned)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items_tags WHERE item_id = ?`, id); err != nil {
			return fmt.Errorf("delete items_tags: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE id = ? AND account_id = ?`, id, accountID); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
}

// checkItemRefs verifies that referenced category/location rows exist and
// belong to the same account. Cross-account references are invalid input.
func (s *Store) checkItemRefs(ctx context.Context, q querier, accountID int64, in domain.ItemInput) error {
	if in.CategoryID != nil {
		var id int64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE id = ? AND account_id = ?`,
			*in.CategoryID, accountID).Scan(&id)
		if err == sql.ErrNoRows {
			return store.ErrInvalidInput.WithMessage("category does not exist")
		}
		if err != nil {
			return err
		}
	}
	if in.LocationID != nil {
		var id int64
		err := q.QueryRowContext(ctx,
			`SELECT id FROM locations WHERE id = ? AND account_id = ?`,
			*in.LocationID, accountID).Scan(&id)
		if err == sql.ErrNoRows {
			return store.ErrInvalidInput.WithMessage("location does not exist")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CountItems returns the number of items in the account.
func (s *Store) CountItems(ctx context.Context, accountID int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}
