package domain

import "time"

// Location records where an item is kept. Same deletion policy as Category:
// items outlive their location, the reference is nulled out.
type Location struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationInput carries the writable fields of a location.
type LocationInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}
