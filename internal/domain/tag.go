package domain

import "time"

// Tag is a free-form label scoped to an account. Names are deduplicated
// case-insensitively: "Kitchen" and "kitchen" resolve to the same row.
// Tags persist even when no item references them.
type Tag struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemTag is the bridge row linking an item to a tag, unique per pair.
type ItemTag struct {
	ItemID int64 `json:"item_id"`
	TagID  int64 `json:"tag_id"`
}
