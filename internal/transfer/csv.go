package transfer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/domain"
)

// csvHeader is the fixed column set of the item CSV format. Import and
// export both depend on this exact order.
var csvHeader = []string{
	"name", "description", "category_name", "location_name", "rating", "tags", "created_at", "updated_at",
}

// utf8BOM prefixes exported files for spreadsheet compatibility.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV writes all of the account's items as CSV: UTF-8 with a
// byte-order-mark prefix, category and location denormalized to their
// display names so the file stays portable across accounts.
func (e *Engine) ExportCSV(ctx context.Context, accountID int64, w io.Writer) error {
	items, err := e.store.ListItems(ctx, accountID, domain.ItemFilter{})
	if err != nil {
		e.logger.Error("csv export: list items failed", "account_id", accountID, "error", err)
		return apperrors.Transfer("export failed").WithCause(err)
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return apperrors.Transfer("export failed").WithCause(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.Transfer("export failed").WithCause(err)
	}

	for _, item := range items {
		row := []string{
			item.Name,
			item.Description,
			item.CategoryName,
			item.LocationName,
			strconv.Itoa(item.Rating),
			strings.Join(item.Tags, ","),
			item.CreatedAt.UTC().Format(time.RFC3339Nano),
			item.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return apperrors.Transfer("export failed").WithCause(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.Transfer("export failed").WithCause(err)
	}

	e.logger.Info("csv export complete", "account_id", accountID, "items", len(items))
	return nil
}

// ImportCSV replaces the account's entire catalog with the uploaded file's
// content. The wipe and the re-population run in one store transaction, so
// a storage fault cannot leave the account half-replaced. Rows that fail
// validation are skipped and reported, never fatal.
func (e *Engine) ImportCSV(ctx context.Context, accountID int64, r io.Reader) (*domain.ImportResult, error) {
	rows, rowErrors, err := parseItemCSV(r)
	if err != nil {
		return nil, err
	}

	if err := e.store.ReplaceAccountItems(ctx, accountID, rows); err != nil {
		e.logger.Error("csv import: replace failed", "account_id", accountID, "error", err)
		return nil, apperrors.Transfer("import failed").WithCause(err)
	}

	e.logger.Info("csv import complete",
		"account_id", accountID,
		"imported", len(rows),
		"skipped", len(rowErrors))

	return &domain.ImportResult{Imported: len(rows), RowErrors: rowErrors}, nil
}

// parseItemCSV reads the uploaded file, tolerating a UTF-8 BOM, and returns
// the valid rows plus diagnostics for the skipped ones. Only an unreadable
// file is an error; bad rows are not.
func parseItemCSV(r io.Reader) ([]domain.ImportItem, []string, error) {
	// Strip a leading BOM if present; exported files carry one.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // row length validated per row below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, apperrors.Validation("file is empty")
	}
	if err != nil {
		return nil, nil, apperrors.Validation("unreadable CSV file").WithCause(err)
	}
	_ = header // header row is positional, not validated by name

	var (
		rows      []domain.ImportItem
		rowErrors []string
		rowNumber = 1
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: malformed CSV: %v", rowNumber, err))
			continue
		}

		// Timestamp columns are optional on input.
		if len(record) < 6 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: incorrect number of columns", rowNumber))
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: item name is missing", rowNumber))
			continue
		}

		rating := 0
		if v := strings.TrimSpace(record[4]); v != "" {
			rating, err = strconv.Atoi(v)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid rating %q", rowNumber, v))
				continue
			}
		}

		rows = append(rows, domain.ImportItem{
			Name:         name,
			Description:  strings.TrimSpace(record[1]),
			CategoryName: strings.TrimSpace(record[2]),
			LocationName: strings.TrimSpace(record[3]),
			Rating:       rating,
			Tags:         splitTags(record[5]),
		})
	}

	return rows, rowErrors, nil
}

// splitTags splits the comma-joined tags column, trimming each tag and
// dropping empties.
func splitTags(joined string) []string {
	var tags []string
	for _, part := range strings.Split(joined, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
