package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `id, account_id, name, description, icon, color, created_at`

// scanCategory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		description sql.NullString
		createdAt   string
	)

	err := scanner.Scan(
		&c.ID,
		&c.AccountID,
		&c.Name,
		&description,
		&c.Icon,
		&c.Color,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCategories returns all categories for an account ordered by name.
func (s *Store) ListCategories(ctx context.Context, accountID int64) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE account_id = ? ORDER BY name ASC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []*domain.Category{}
	}

	return categories, nil
}

// GetCategory retrieves a category by id, scoped to the account.
// Returns store.ErrNotFound if absent or owned by another account.
func (s *Store) GetCategory(ctx context.Context, id, accountID int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND account_id = ?`,
		id, accountID)

	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCategory inserts a new category and returns its id.
func (s *Store) CreateCategory(ctx context.Context, accountID int64, in domain.CategoryInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (account_id, name, description, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		accountID,
		in.Name,
		nullString(in.Description),
		in.Icon,
		in.Color,
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateCategory updates a category's fields.
// Returns store.ErrNotFound when no row matched.
func (s *Store) UpdateCategory(ctx context.Context, id, accountID int64, in domain.CategoryInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, icon = ?, color = ?
		WHERE id = ? AND account_id = ?`,
		in.Name,
		nullString(in.Description),
		in.Icon,
		in.Color,
		id,
		accountID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Items referencing it keep existing;
// their category reference is nulled out in the same transaction.
// Returns store.ErrNotFound when no row matched.
func (s *Store) DeleteCategory(ctx context.Context, id, accountID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET category_id = NULL WHERE category_id = ? AND account_id = ?`,
			id, accountID); err != nil {
			return fmt.Errorf("null out item categories: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE id = ? AND account_id = ?`, id, accountID)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// FindOrCreateCategoryByName finds a category by case-insensitive name match
// or creates one with default styling. Used by CSV import.
func (s *Store) FindOrCreateCategoryByName(ctx context.Context, accountID int64, name string) (int64, error) {
	return s.findOrCreateCategoryByName(ctx, s.db, accountID, name)
}

func (s *Store) findOrCreateCategoryByName(ctx context.Context, q querier, accountID int64, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE account_id = ? AND name = ? COLLATE NOCASE`,
		accountID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO categories (account_id, name, description, icon, color, created_at)
		VALUES (?, ?, NULL, ?, ?, ?)`,
		accountID,
		name,
		domain.DefaultCategoryIcon,
		domain.DefaultCategoryColor,
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
