package domain

// Recognized per-account setting keys. Any other key is rejected.
const (
	SettingAccentColor           = "accent_color"             // #rrggbb hex string
	SettingSkipItemDeleteConfirm = "skip_item_delete_confirm" // stored as "0"/"1"
)

// Setting is a key/value pair scoped to an account. Writes are upserts;
// last write wins, there is no further row lifecycle.
type Setting struct {
	AccountID int64  `json:"account_id"`
	Key       string `json:"setting_key"`
	Value     string `json:"setting_value"`
}

// SettingInput carries a single setting write.
type SettingInput struct {
	Key   string `json:"setting_key" validate:"required"`
	Value string `json:"setting_value"`
}
