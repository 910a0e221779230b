package transfer

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/store"
)

func testDump() *store.Dump {
	return &store.Dump{
		Accounts: []store.AccountRow{
			{ID: 1, Username: "alex", PasswordHash: "hash", CreatedAt: "2025-06-01T12:00:00Z"},
		},
		Categories: []store.CategoryRow{},
		Locations:  []store.LocationRow{},
		Tags: []store.TagRow{
			{ID: 1, AccountID: 1, Name: "sci-fi", CreatedAt: "2025-06-01T12:00:00Z"},
		},
		Items: []store.ItemRow{
			{ID: 1, AccountID: 1, Name: "Dune", Rating: 4, CreatedAt: "2025-06-01T12:00:00Z", UpdatedAt: "2025-06-01T12:00:00Z"},
		},
		ItemsTags: []store.ItemTagRow{{ItemID: 1, TagID: 1}},
		Settings:  []store.SettingRow{},
	}
}

func TestExportJSON(t *testing.T) {
	fs := &fakeStore{dump: testDump()}
	engine := newTestEngine(fs)

	var buf bytes.Buffer
	require.NoError(t, engine.ExportJSON(context.Background(), &buf))

	var backup Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))

	assert.Equal(t, SchemaVersion, backup.SchemaVersion)
	assert.NotEmpty(t, backup.ExportDate)
	require.NotNil(t, backup.Tables)
	assert.Len(t, backup.Tables.Accounts, 1)
	assert.Len(t, backup.Tables.Items, 1)
	// Credential hashes travel with the backup.
	assert.Contains(t, buf.String(), `"password_hash"`)
}

func TestImportJSON_RoundTrip(t *testing.T) {
	source := &fakeStore{dump: testDump()}
	engine := newTestEngine(source)

	var buf bytes.Buffer
	require.NoError(t, engine.ExportJSON(context.Background(), &buf))

	target := &fakeStore{}
	require.NoError(t, newTestEngine(target).ImportJSON(context.Background(), &buf))

	require.NotNil(t, target.restored)
	assert.Equal(t, source.dump.Accounts, target.restored.Accounts)
	assert.Equal(t, source.dump.Items, target.restored.Items)
	assert.Equal(t, source.dump.ItemsTags, target.restored.ItemsTags)
}

func TestImportJSON_RejectsBadInput(t *testing.T) {
	engine := newTestEngine(&fakeStore{})

	tests := []struct {
		name  string
		input string
	}{
		{"not json", "this is not json"},
		{"missing schema version", `{"tables": {}}`},
		{"missing tables", `{"schema_version": "1.0"}`},
		{"unsupported version", `{"schema_version": "9.9", "tables": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.ImportJSON(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		})
	}
}
