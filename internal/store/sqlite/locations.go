package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// locationColumns is the ordered list of columns selected in location queries.
// Must match the scan order in scanLocation.
const locationColumns = `id, account_id, name, description, created_at`

// scanLocation scans a sql.Row (or sql.Rows via its Scan method) into a domain.Location.
func scanLocation(scanner interface{ Scan(dest ...any) error }) (*domain.Location, error) {
	var l domain.Location

	var (
		description sql.NullString
		createdAt   string
	)

	err := scanner.Scan(
		&l.ID,
		&l.AccountID,
		&l.Name,
		&description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	l.Description = description.String

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// ListLocations returns all locations for an account ordered by name.
func (s *Store) ListLocations(ctx context.Context, accountID int64) ([]*domain.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE account_id = ? ORDER BY name ASC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if locations == nil {
		locations = []*domain.Location{}
	}

	return locations, nil
}

// GetLocation retrieves a location by id, scoped to the account.
// Returns store.ErrNotFound if absent or owned by another account.
func (s *Store) GetLocation(ctx context.Context, id, accountID int64) (*domain.Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ? AND account_id = ?`,
		id, accountID)

	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateLocation inserts a new location and returns its id.
func (s *Store) CreateLocation(ctx context.Context, accountID int64, in domain.LocationInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (account_id, name, description, created_at)
		VALUES (?, ?, ?, ?)`,
		accountID,
		in.Name,
		nullString(in.Description),
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateLocation updates a location's fields.
// Returns store.ErrNotFound when no row matched.
func (s *Store) UpdateLocation(ctx context.Context, id, accountID int64, in domain.LocationInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE locations SET name = ?, description = ?
		WHERE id = ? AND account_id = ?`,
		in.Name,
		nullString(in.Description),
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

// DeleteLocation removes a location, nulling out item references in the
// same transaction. Returns store.ErrNotFound when no row matched.
func (s *Store) DeleteLocation(ctx context.Context, id, accountID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET location_id = NULL WHERE location_id = ? AND account_id = ?`,
			id, accountID); err != nil {
			return fmt.Errorf("null out item locations: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM locations WHERE id = ? AND account_id = ?`, id, accountID)
		if err != nil {
			return fmt.Errorf("delete location: %w", err)
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

// FindOrCreateLocationByName finds a location by case-insensitive name match
// or creates one. Used by CSV import.
func (s *Store) FindOrCreateLocationByName(ctx context.Context, accountID int64, name string) (int64, error) {
	return s.findOrCreateLocationByName(ctx, s.db, accountID, name)
}

func (s *Store) findOrCreateLocationByName(ctx context.Context, q querier, accountID int64, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM locations WHERE account_id = ? AND name = ? COLLATE NOCASE`,
		accountID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO locations (account_id, name, description, created_at)
		VALUES (?, ?, NULL, ?)`,
		accountID,
		name,
		formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
