package store

// Row types for the whole-database dump. Fields mirror the table columns
// exactly, timestamps kept as their stored strings, so an export/import
// cycle is value-for-value faithful. This is an administrative format with
// no account scoping; it includes credential hashes.

// AccountRow mirrors one accounts row.
type AccountRow struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"password_hash"`
	CreatedAt    string  `json:"created_at"`
	LastLogin    *string `json:"last_login"`
}

// CategoryRow mirrors one categories row.
type CategoryRow struct {
	ID          int64   `json:"id"`
	AccountID   int64   `json:"account_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	CreatedAt   string  `json:"created_at"`
}

// LocationRow mirrors one locations row.
type LocationRow struct {
	ID          int64   `json:"id"`
	AccountID   int64   `json:"account_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// TagRow mirrors one tags row.
type TagRow struct {
	ID        int64  `json:"id"`
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ItemRow mirrors one items row.
type ItemRow struct {
	ID          int64   `json:"id"`
	AccountID   int64   `json:"account_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	CategoryID  *int64  `json:"category_id"`
	LocationID  *int64  `json:"location_id"`
	Rating      int     `json:"rating"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ItemTagRow mirrors one items_tags bridge row.
type ItemTagRow struct {
	ItemID int64 `json:"item_id"`
	TagID  int64 `json:"tag_id"`
}

// SettingRow mirrors one account_settings row.
type SettingRow struct {
	AccountID int64  `json:"account_id"`
	Key       string `json:"setting_key"`
	Value     string `json:"setting_value"`
}

// Dump holds every row of every table, keyed the way the backup file's
// tables map is. Sessions are deliberately absent: they are invalidated,
// not restored.
type Dump struct {
	Accounts   []AccountRow  `json:"accounts"`
	Categories []CategoryRow `json:"categories"`
	Locations  []LocationRow `json:"locations"`
	Tags       []TagRow      `json:"tags"`
	Items      []ItemRow     `json:"items"`
	ItemsTags  []ItemTagRow  `json:"items_tags"`
	Settings   []SettingRow  `json:"account_settings"`
}
