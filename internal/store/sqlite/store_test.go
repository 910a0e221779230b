package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/midshelf/midshelf-server/internal/domain"
)

// newTestStore creates a store backed by a temp file database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

// newTestAccount creates an account and returns its id.
func newTestAccount(t *testing.T, s *Store, username string) int64 {
	t.Helper()

	id, err := s.CreateAccount(context.Background(), username, "x-not-a-real-hash")
	if err != nil {
		t.Fatalf("CreateAccount(%q) error = %v", username, err)
	}
	return id
}

// newTestItem creates a minimal item and returns its id.
func newTestItem(t *testing.T, s *Store, accountID int64, name string, tags ...string) int64 {
	t.Helper()

	id, err := s.CreateItem(context.Background(), accountID, domain.ItemInput{
		Name: name,
		Tags: tags,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q) error = %v", name, err)
	}
	return id
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path, logger)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	accountID := newTestAccount(t, s1, "keeper")
	if err := s1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must not fail on existing tables or lose data.
	s2, err := Open(path, logger)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer s2.Close()

	account, err := s2.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("GetAccount() after reopen error = %v", err)
	}
	if account.Username != "keeper" {
		t.Errorf("Username = %q, want %q", account.Username, "keeper")
	}
}
