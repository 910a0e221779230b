package sqlite

import (
	"context"
	"testing"

	"github.com/midshelf/midshelf-server/internal/domain"
)

func TestWipeAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alexID := newTestAccount(t, s, "alex")
	saraID := newTestAccount(t, s, "sara")

	categoryID, err := s.CreateCategory(ctx, alexID, domain.CategoryInput{Name: "Books"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if _, err := s.CreateLocation(ctx, alexID, domain.LocationInput{Name: "Shelf"}); err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}
	if _, err := s.CreateItem(ctx, alexID, domain.ItemInput{
		Name:       "Dune",
		CategoryID: &categoryID,
		Tags:       []string{"sci-fi"},
	}); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if err := s.UpsertSetting(ctx, alexID, "accent_color", "#112233"); err != nil {
		t.Fatalf("UpsertSetting() error = %v", err)
	}

	newTestItem(t, s, saraID, "Lamp", "brass")

	if err := s.WipeAccount(ctx, alexID); err != nil {
		t.Fatalf("WipeAccount() error = %v", err)
	}

	// Catalog data is gone.
	items, err := s.ListItems(ctx, alexID, domain.ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items after wipe = %d, want 0", len(items))
	}
	tags, err := s.ListTags(ctx, alexID)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags after wipe = %d, want 0", len(tags))
	}
	categories, err := s.ListCategories(ctx, alexID)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("categories after wipe = %d, want 0", len(categories))
	}
	locations, err := s.ListLocations(ctx, alexID)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("locations after wipe = %d, want 0", len(locations))
	}

	// The account row and its settings survive.
	if _, err := s.GetAccount(ctx, alexID); err != nil {
		t.Errorf("account should survive wipe: %v", err)
	}
	value, err := s.GetSetting(ctx, alexID, "accent_color")
	if err != nil || value != "#112233" {
		t.Errorf("settings should survive wipe: value=%q err=%v", value, err)
	}

	// Other accounts are untouched.
	saraItems, err := s.ListItems(ctx, saraID, domain.ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems() for other account error = %v", err)
	}
	if len(saraItems) != 1 {
		t.Errorf("other account items = %d, want 1", len(saraItems))
	}
}
