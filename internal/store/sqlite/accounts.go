package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// accountColumns is the ordered list of columns selected in account queries.
// Must match the scan order in scanAccount.
const accountColumns = `id, username, password_hash, created_at, last_login`

// scanAccount scans a sql.Row (or sql.Rows via its Scan method) into a domain.Account.
func scanAccount(scanner interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var a domain.Account

	var (
		createdAt string
		lastLogin sql.NullString
	)

	err := scanner.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&createdAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.LastLogin, err = parseNullableTime(lastLogin)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAccount inserts a new account and returns its id.
// Returns store.ErrAlreadyExists on a duplicate username.
func (s *Store) CreateAccount(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (username, password_hash, created_at)
		VALUES (?, ?, ?)`,
		username,
		passwordHash,
		formatTime(time.Now()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetAccount retrieves an account by id.
// Returns store.ErrNotFound if the account does not exist.
func (s *Store) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAccountByUsername retrieves an account by its unique username.
// Returns store.ErrNotFound if the account does not exist.
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// TouchLastLogin records a successful login time.
func (s *Store) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET last_login = ? WHERE id = ?`,
		formatTime(at), id)
	return err
}
