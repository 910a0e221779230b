package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/midshelf/midshelf-server/internal/domain"
	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/store/sqlite"
)

var accentColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SettingsService manages per-account preferences. Only recognized keys
// are accepted, and each key validates and normalizes its own value.
type SettingsService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(st *sqlite.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: st, logger: logger}
}

// GetAll returns every stored setting for the account. Keys that were
// never written are simply absent.
func (s *SettingsService) GetAll(ctx context.Context, accountID int64) (map[string]string, error) {
	return s.store.GetSettings(ctx, accountID)
}

// Get returns one setting value.
func (s *SettingsService) Get(ctx context.Context, accountID int64, key string) (string, error) {
	return s.store.GetSetting(ctx, accountID, key)
}

// Update validates and upserts one setting. Last write wins.
func (s *SettingsService) Update(ctx context.Context, accountID int64, in domain.SettingInput) (*domain.Setting, error) {
	value, err := normalizeSetting(in.Key, in.Value)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertSetting(ctx, accountID, in.Key, value); err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}

	s.logger.Info("setting updated", "account_id", accountID, "key", in.Key)
	return &domain.Setting{AccountID: accountID, Key: in.Key, Value: value}, nil
}

// normalizeSetting checks the key against the allow-list and canonicalizes
// the value for storage.
func normalizeSetting(key, value string) (string, error) {
	switch key {
	case domain.SettingAccentColor:
		if !accentColorPattern.MatchString(value) {
			return "", apperrors.Validation("accent color must be a hex color like #8b5cf6")
		}
		return strings.ToLower(value), nil

	case domain.SettingSkipItemDeleteConfirm:
		// Booleans are stored as "0"/"1".
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return "1", nil
		case "0", "false", "no", "":
			return "0", nil
		default:
			return "", apperrors.Validationf("invalid boolean value %q", value)
		}

	default:
		return "", apperrors.Validationf("unrecognized setting key %q", key)
	}
}
