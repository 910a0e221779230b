package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midshelf/midshelf-server/internal/domain"
	apperrors "github.com/midshelf/midshelf-server/internal/errors"
)

func TestNormalizeSetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"accent color lowercased", domain.SettingAccentColor, "#AABBCC", "#aabbcc", false},
		{"accent color already lower", domain.SettingAccentColor, "#8b5cf6", "#8b5cf6", false},
		{"accent color missing hash", domain.SettingAccentColor, "8b5cf6", "", true},
		{"accent color short form", domain.SettingAccentColor, "#abc", "", true},
		{"accent color garbage", domain.SettingAccentColor, "purple", "", true},
		{"bool true", domain.SettingSkipItemDeleteConfirm, "true", "1", false},
		{"bool yes", domain.SettingSkipItemDeleteConfirm, "YES", "1", false},
		{"bool one", domain.SettingSkipItemDeleteConfirm, "1", "1", false},
		{"bool false", domain.SettingSkipItemDeleteConfirm, "false", "0", false},
		{"bool empty", domain.SettingSkipItemDeleteConfirm, "", "0", false},
		{"bool garbage", domain.SettingSkipItemDeleteConfirm, "maybe", "", true},
		{"unknown key", "favorite_food", "pizza", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSetting(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				var appErr *apperrors.Error
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.CodeValidation, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_UpdateAndGet(t *testing.T) {
	st := newTestStore(t)
	svc := NewSettingsService(st, discardLogger())
	ctx := context.Background()

	accountID, err := st.CreateAccount(ctx, "alex", "hash")
	require.NoError(t, err)

	setting, err := svc.Update(ctx, accountID, domain.SettingInput{
		Key:   domain.SettingAccentColor,
		Value: "#AABBCC",
	})
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", setting.Value)

	value, err := svc.Get(ctx, accountID, domain.SettingAccentColor)
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", value)

	// Last write wins.
	_, err = svc.Update(ctx, accountID, domain.SettingInput{
		Key:   domain.SettingAccentColor,
		Value: "#112233",
	})
	require.NoError(t, err)

	all, err := svc.GetAll(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{domain.SettingAccentColor: "#112233"}, all)
}
