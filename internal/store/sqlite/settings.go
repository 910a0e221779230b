package sqlite

import (
	"context"
	"database/sql"

	"github.com/midshelf/midshelf-server/internal/store"
)

// GetSetting retrieves one setting value for an account.
// Returns store.ErrNotFound if the key has never been written.
func (s *Store) GetSetting(ctx context.Context, accountID int64, key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT setting_value FROM account_settings WHERE account_id = ? AND setting_key = ?`,
		accountID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// GetSettings returns all settings for an account as a key/value map.
func (s *Store) GetSettings(ctx context.Context, accountID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT setting_key, setting_value FROM account_settings WHERE account_id = ?`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var (
			key   string
			value sql.NullString
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value.String
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// UpsertSetting creates or replaces a setting value. Last write wins.
func (s *Store) UpsertSetting(ctx context.Context, accountID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO account_settings (account_id, setting_key, setting_value)
		VALUES (?, ?, ?)`,
		accountID, key, value)
	return err
}
