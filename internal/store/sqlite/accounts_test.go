package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/midshelf/midshelf-server/internal/store"
)

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestAccount(t, s, "alex")

	_, err := s.CreateAccount(ctx, "alex", "another-hash")
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("CreateAccount() error = %v, want ErrAlreadyExists", err)
	}
}

func TestGetAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := newTestAccount(t, s, "alex")

	account, err := s.GetAccount(ctx, id)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Username != "alex" {
		t.Errorf("Username = %q, want %q", account.Username, "alex")
	}
	if account.LastLogin != nil {
		t.Errorf("LastLogin = %v, want nil before first login", account.LastLogin)
	}
	if account.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if _, err := s.GetAccount(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetAccount(9999) error = %v, want ErrNotFound", err)
	}
}

func TestGetAccountByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := newTestAccount(t, s, "alex")

	account, err := s.GetAccountByUsername(ctx, "alex")
	if err != nil {
		t.Fatalf("GetAccountByUsername() error = %v", err)
	}
	if account.ID != id {
		t.Errorf("ID = %d, want %d", account.ID, id)
	}

	if _, err := s.GetAccountByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetAccountByUsername(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestTouchLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := newTestAccount(t, s, "alex")
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := s.TouchLastLogin(ctx, id, at); err != nil {
		t.Fatalf("TouchLastLogin() error = %v", err)
	}

	account, err := s.GetAccount(ctx, id)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.LastLogin == nil || !account.LastLogin.Equal(at) {
		t.Errorf("LastLogin = %v, want %v", account.LastLogin, at)
	}
}
