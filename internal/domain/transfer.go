package domain

// ImportItem is one parsed CSV row, validated and ready for insertion.
// Category and location are carried by display name and resolved to ids
// (get-or-create, case-insensitive) at insert time.
type ImportItem struct {
	Name         string
	Description  string
	CategoryName string
	LocationName string
	Rating       int
	Tags         []string
}

// ImportResult summarizes a CSV import: how many items landed and the
// per-row diagnostics for rows that were skipped.
type ImportResult struct {
	Imported  int      `json:"imported"`
	RowErrors []string `json:"row_errors,omitempty"`
}
