package domain

import "time"

// Rating bounds. Out-of-range input is clamped before storage, never
// stored raw.
const (
	MinRating = 0
	MaxRating = 5
)

// ClampRating forces a rating into [MinRating, MaxRating].
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Item is a cataloged object. Category and location references are optional
// and always belong to the same account as the item.
type Item struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link,omitempty"` // Optional external URL
	CategoryID  *int64    `json:"category_id"`
	LocationID  *int64    `json:"location_id"`
	Rating      int       `json:"rating"`
	Tags        []string  `json:"tags"` // Always materialized as a list, never a joined string
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Denormalized display fields from the listing join.
	CategoryName  string `json:"category_name,omitempty"`
	CategoryIcon  string `json:"category_icon,omitempty"`
	CategoryColor string `json:"category_color,omitempty"`
	LocationName  string `json:"location_name,omitempty"`
}

// ItemInput carries the writable fields of an item. Tags is the full tag
// set; an update replaces the stored set rather than patching it.
type ItemInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Link        string   `json:"link" validate:"omitempty,url,max=500"`
	CategoryID  *int64   `json:"category_id"`
	LocationID  *int64   `json:"location_id"`
	Rating      int      `json:"rating"`
	Tags        []string `json:"tags" validate:"max=50,dive,max=100"`
}

// ItemFilter narrows the item listing. Zero values mean "no filter".
type ItemFilter struct {
	CategoryID *int64 // Only items in this category
	TagName    string // Only items carrying this exact tag name (case-sensitive)
	Limit      int    // Hard cap on returned rows, 0 = unlimited
}
