package transfer

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"time"

	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/store"
)

// SchemaVersion identifies the backup file layout.
const SchemaVersion = "1.0"

// Backup is the whole-database JSON format: every row of every table,
// credential hashes included. Administrative and disaster-recovery use
// only; there is no account scoping.
type Backup struct {
	SchemaVersion string      `json:"schema_version"`
	ExportDate    string      `json:"export_date"`
	Tables        *store.Dump `json:"tables"`
}

// ExportJSON writes the whole-database backup to w.
func (e *Engine) ExportJSON(ctx context.Context, w io.Writer) error {
	dump, err := e.store.DumpDatabase(ctx)
	if err != nil {
		e.logger.Error("json export: dump failed", "error", err)
		return apperrors.Transfer("export failed").WithCause(err)
	}

	backup := Backup{
		SchemaVersion: SchemaVersion,
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
		Tables:        dump,
	}

	if err := json.MarshalWrite(w, backup, jsontext.WithIndent("  ")); err != nil {
		return apperrors.Transfer("export failed").WithCause(err)
	}

	e.logger.Info("json export complete",
		"accounts", len(dump.Accounts),
		"items", len(dump.Items))
	return nil
}

// ImportJSON replaces the entire database with the backup read from r.
// The restore is transactional: either every row lands or none do. On
// success every active session is gone, since account identities and
// secrets may have changed underneath them.
func (e *Engine) ImportJSON(ctx context.Context, r io.Reader) error {
	var backup Backup
	if err := json.UnmarshalRead(r, &backup); err != nil {
		return apperrors.Validation("invalid backup file format").WithCause(err)
	}

	if backup.SchemaVersion == "" || backup.Tables == nil {
		return apperrors.Validation("invalid backup file format")
	}
	if backup.SchemaVersion != SchemaVersion {
		return apperrors.Validationf("unsupported schema version %q", backup.SchemaVersion)
	}

	if err := e.store.RestoreDatabase(ctx, backup.Tables); err != nil {
		e.logger.Error("json import: restore failed", "error", err)
		return apperrors.Transfer("import failed").WithCause(err)
	}

	e.logger.Info("json import complete",
		"accounts", len(backup.Tables.Accounts),
		"items", len(backup.Tables.Items))
	return nil
}
