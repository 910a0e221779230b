package domain

import "time"

// Defaults applied when a category is created without explicit styling,
// e.g. by name during CSV import.
const (
	DefaultCategoryIcon  = "fas fa-folder"
	DefaultCategoryColor = "#8b5cf6"
)

// Category classifies items. Deleting a category never deletes its items;
// their category reference is nulled out instead.
type Category struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon"`  // Icon identifier, e.g. "fas fa-book"
	Color       string    `json:"color"` // Hex color for UI badges
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=50"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// ApplyDefaults fills in the default icon and color when absent.
func (in *CategoryInput) ApplyDefaults() {
	if in.Icon == "" {
		in.Icon = DefaultCategoryIcon
	}
	if in.Color == "" {
		in.Color = DefaultCategoryColor
	}
}
