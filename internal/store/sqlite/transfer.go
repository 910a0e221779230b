package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

// ReplaceAccountItems wipes the account's catalog and recreates it from the
// given rows, all inside one transaction. A storage fault at any point rolls
// back the wipe together with the partial re-population, so the caller never
// observes a half-replaced account.
func (s *Store) ReplaceAccountItems(ctx context.Context, accountID int64, rows []domain.ImportItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.wipeAccount(ctx, tx, accountID); err != nil {
			return fmt.Errorf("wipe account: %w", err)
		}

		now := formatTime(time.Now())
		for _, row := range rows {
			var categoryID, locationID sql.NullInt64

			if row.CategoryName != "" {
				id, err := s.findOrCreateCategoryByName(ctx, tx, accountID, row.CategoryName)
				if err != nil {
					return fmt.Errorf("resolve category %q: %w", row.CategoryName, err)
				}
				categoryID = sql.NullInt64{Int64: id, Valid: true}
			}

			if row.LocationName != "" {
				id, err := s.findOrCreateLocationByName(ctx, tx, accountID, row.LocationName)
				if err != nil {
					return fmt.Errorf("resolve location %q: %w", row.LocationName, err)
				}
				locationID = sql.NullInt64{Int64: id, Valid: true}
			}

			res, err := tx.ExecContext(ctx, `
				INSERT INTO items (account_id, name, description, link, category_id, location_id, rating, created_at, updated_at)
				VALUES (?, ?, ?, NULL, ?, ?, ?, ?, ?)`,
				accountID,
				row.Name,
				nullString(row.Description),
				categoryID,
				locationID,
				domain.ClampRating(row.Rating),
				now,
				now,
			)
			if err != nil {
				return fmt.Errorf("insert item %q: %w", row.Name, err)
			}

			itemID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			if err := s.replaceItemTags(ctx, tx, itemID, accountID, row.Tags); err != nil {
				return fmt.Errorf("tags for item %q: %w", row.Name, err)
			}
		}

		return nil
	})
}

// backupTables lists every dumped table, parent before child. Deletion runs
// over it in reverse.
var backupTables = []string{
	"accounts", "categories", "locations", "tags", "items", "items_tags", "account_settings",
}

// DumpDatabase reads every row of every table for the whole-database backup.
func (s *Store) DumpDatabase(ctx context.Context) (*store.Dump, error) {
	dump := &store.Dump{
		Accounts:   []store.AccountRow{},
		Categories: []store.CategoryRow{},
		Locations:  []store.LocationRow{},
		Tags:       []store.TagRow{},
		Items:      []store.ItemRow{},
		ItemsTags:  []store.ItemTagRow{},
		Settings:   []store.SettingRow{},
	}

	err := collectRows(ctx, s.db,
		`SELECT id, username, password_hash, created_at, last_login FROM accounts ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.AccountRow
			if err := rows.Scan(&r.ID, &r.Username, &r.PasswordHash, &r.CreatedAt, &r.LastLogin); err != nil {
				return err
			}
			dump.Accounts = append(dump.Accounts, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump accounts: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT id, account_id, name, description, icon, color, created_at FROM categories ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.CategoryRow
			if err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &r.Description, &r.Icon, &r.Color, &r.CreatedAt); err != nil {
				return err
			}
			dump.Categories = append(dump.Categories, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump categories: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT id, account_id, name, description, created_at FROM locations ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.LocationRow
			if err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &r.Description, &r.CreatedAt); err != nil {
				return err
			}
			dump.Locations = append(dump.Locations, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump locations: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT id, account_id, name, created_at FROM tags ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.TagRow
			if err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &r.CreatedAt); err != nil {
				return err
			}
			dump.Tags = append(dump.Tags, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump tags: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT id, account_id, name, description, link, category_id, location_id, rating, created_at, updated_at FROM items ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.ItemRow
			if err := rows.Scan(&r.ID, &r.AccountID, &r.Name, &r.Description, &r.Link, &r.CategoryID, &r.LocationID, &r.Rating, &r.CreatedAt, &r.UpdatedAt); err != nil {
				return err
			}
			dump.Items = append(dump.Items, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump items: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT item_id, tag_id FROM items_tags ORDER BY item_id, tag_id`,
		func(rows *sql.Rows) error {
			var r store.ItemTagRow
			if err := rows.Scan(&r.ItemID, &r.TagID); err != nil {
				return err
			}
			dump.ItemsTags = append(dump.ItemsTags, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump items_tags: %w", err)
	}

	err = collectRows(ctx, s.db,
		`SELECT account_id, setting_key, setting_value FROM account_settings ORDER BY account_id, setting_key`,
		func(rows *sql.Rows) error {
			var r store.SettingRow
			if err := rows.Scan(&r.AccountID, &r.Key, &r.Value); err != nil {
				return err
			}
			dump.Settings = append(dump.Settings, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("dump account_settings: %w", err)
	}

	return dump, nil
}

// collectRows runs a query and feeds each row to scan.
func collectRows(ctx context.Context, q querier, query string, scan func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// RestoreDatabase replaces the entire database content with the dump, in one
// transaction: delete all rows child-before-parent, reset the autoincrement
// counters, then insert parent-before-child with their original ids. Commits
// only if every insert succeeds. All sessions are dropped afterwards since
// account identities and secrets may have changed underneath them.
func (s *Store) RestoreDatabase(ctx context.Context, dump *store.Dump) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// Sessions reference accounts, so they go first.
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("clear sessions: %w", err)
		}
		for i := len(backupTables) - 1; i >= 0; i-- {
			table := backupTables[i]
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil {
				return fmt.Errorf("reset sequence for %s: %w", table, err)
			}
		}

		for _, r := range dump.Accounts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO accounts (id, username, password_hash, created_at, last_login)
				VALUES (?, ?, ?, ?, ?)`,
				r.ID, r.Username, r.PasswordHash, r.CreatedAt, r.LastLogin); err != nil {
				return fmt.Errorf("restore account %d: %w", r.ID, err)
			}
		}
		for _, r := range dump.Categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, account_id, name, description, icon, color, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.AccountID, r.Name, r.Description, r.Icon, r.Color, r.CreatedAt); err != nil {
				return fmt.Errorf("restore category %d: %w", r.ID, err)
			}
		}
		for _, r := range dump.Locations {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO locations (id, account_id, name, description, created_at)
				VALUES (?, ?, ?, ?, ?)`,
				r.ID, r.AccountID, r.Name, r.Description, r.CreatedAt); err != nil {
				return fmt.Errorf("restore location %d: %w", r.ID, err)
			}
		}
		for _, r := range dump.Tags {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tags (id, account_id, name, created_at)
				VALUES (?, ?, ?, ?)`,
				r.ID, r.AccountID, r.Name, r.CreatedAt); err != nil {
				return fmt.Errorf("restore tag %d: %w", r.ID, err)
			}
		}
		for _, r := range dump.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO items (id, account_id, name, description, link, category_id, location_id, rating, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.AccountID, r.Name, r.Description, r.Link, r.CategoryID, r.LocationID, r.Rating, r.CreatedAt, r.UpdatedAt); err != nil {
				return fmt.Errorf("restore item %d: %w", r.ID, err)
			}
		}
		for _, r := range dump.ItemsTags {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO items_tags (item_id, tag_id) VALUES (?, ?)`,
				r.ItemID, r.TagID); err != nil {
				return fmt.Errorf("restore items_tags (%d,%d): %w", r.ItemID, r.TagID, err)
			}
		}
		for _, r := range dump.Settings {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO account_settings (account_id, setting_key, setting_value)
				VALUES (?, ?, ?)`,
				r.AccountID, r.Key, r.Value); err != nil {
				return fmt.Errorf("restore setting %s/%d: %w", r.Key, r.AccountID, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("database restored from backup",
		"accounts", len(dump.Accounts),
		"items", len(dump.Items),
		"tags", len(dump.Tags))
	return nil
}
