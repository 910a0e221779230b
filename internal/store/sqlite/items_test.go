package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/store"
)

func TestCreateItem_FullRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	categoryID, err := s.CreateCategory(ctx, accountID, domain.CategoryInput{
		Name: "Books", Icon: "fas fa-book", Color: "#112233",
	})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	locationID, err := s.CreateLocation(ctx, accountID, domain.LocationInput{Name: "Shelf"})
	if err != nil {
		t.Fatalf("CreateLocation() error = %v", err)
	}

	id, err := s.CreateItem(ctx, accountID, domain.ItemInput{
		Name:        "Dune",
		Description: "hardcover",
		Link:        "https://example.com/dune",
		CategoryID:  &categoryID,
		LocationID:  &locationID,
		Rating:      4,
		Tags:        []string{"sci-fi", "classic"},
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	item, err := s.GetItem(ctx, id, accountID)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}

	if item.Name != "Dune" || item.Rating != 4 {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.CategoryName != "Books" || item.CategoryIcon != "fas fa-book" || item.CategoryColor != "#112233" {
		t.Errorf("category fields not denormalized: %+v", item)
	}
	if item.LocationName != "Shelf" {
		t.Errorf("LocationName = %q, want Shelf", item.LocationName)
	}
	if !slices.Equal(item.Tags, []string{"classic", "sci-fi"}) {
		t.Errorf("Tags = %v, want [classic sci-fi]", item.Tags)
	}
}

func TestCreateItem_RatingClamped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	tests := []struct {
		rating int
		want   int
	}{
		{99, 5},
		{6, 5},
		{-3, 0},
		{3, 3},
	}

	for _, tt := range tests {
		id, err := s.CreateItem(ctx, accountID, domain.ItemInput{Name: "Widget", Rating: tt.rating})
		if err != nil {
			t.Fatalf("CreateItem(rating=%d) error = %v", tt.rating, err)
		}
		item, err := s.GetItem(ctx, id, accountID)
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if item.Rating != tt.want {
			t.Errorf("rating %d stored as %d, want %d", tt.rating, item.Rating, tt.want)
		}
	}
}

func TestCreateItem_CrossAccountRefsRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alexID := newTestAccount(t, s, "alex")
	saraID := newTestAccount(t, s, "sara")

	categoryID, err := s.CreateCategory(ctx, alexID, domain.CategoryInput{Name: "Books"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	// Sara cannot attach her item to Alex's category.
	_, err = s.CreateItem(ctx, saraID, domain.ItemInput{
		Name:       "Sneaky",
		CategoryID: &categoryID,
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("CreateItem() error = %v, want ErrInvalidInput", err)
	}
}

func TestListItems_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	newTestItem(t, s, accountID, "first")
	newTestItem(t, s, accountID, "second")
	newTestItem(t, s, accountID, "third")

	items, err := s.ListItems(ctx, accountID, domain.ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	// Same-timestamp rows fall back to descending id.
	if items[0].Name != "third" || items[2].Name != "first" {
		t.Errorf("wrong order: %s, %s, %s", items[0].Name, items[1].Name, items[2].Name)
	}
}

func TestListItems_CategoryFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	categoryID, err := s.CreateCategory(ctx, accountID, domain.CategoryInput{Name: "Tools"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	if _, err := s.CreateItem(ctx, accountID, domain.ItemInput{Name: "Hammer", CategoryID: &categoryID}); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	newTestItem(t, s, accountID, "Uncategorized")

	items, err := s.ListItems(ctx, accountID, domain.ItemFilter{CategoryID: &categoryID})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Hammer" {
		t.Errorf("ListItems(category) = %+v, want just Hammer", items)
	}
}

func TestListItems_TagFilterIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	newTestItem(t, s, accountID, "Tagged", "Fiction")
	newTestItem(t, s, accountID, "Untagged")

	// Exact casing matches.
	items, err := s.ListItems(ctx, accountID, domain.ItemFilter{TagName: "Fiction"})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Tagged" {
		t.Errorf("ListItems(tag=Fiction) = %+v, want just Tagged", items)
	}

	// Tag resolution is case-insensitive but the listing filter is not.
	items, err = s.ListItems(ctx, accountID, domain.ItemFilter{TagName: "fiction"})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ListItems(tag=fiction) = %+v, want empty", items)
	}
}

func TestListItems_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	for _, name := range []string{"a", "b", "c", "d"} {
		newTestItem(t, s, accountID, name)
	}

	items, err := s.ListItems(ctx, accountID, domain.ItemFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestListItems_MultiTagAggregation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	newTestItem(t, s, accountID, "Lamp", "brass", "vintage", "lighting")
	newTestItem(t, s, accountID, "Bare")

	items, err := s.ListItems(ctx, accountID, domain.ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	// Listing rows carry the full tag list; untagged rows get an empty
	// slice, never nil.
	for _, item := range items {
		switch item.Name {
		case "Lamp":
			if len(item.Tags) != 3 {
				t.Errorf("Lamp tags = %v, want 3 entries", item.Tags)
			}
		case "Bare":
			if item.Tags == nil || len(item.Tags) != 0 {
				t.Errorf("Bare tags = %#v, want empty slice", item.Tags)
			}
		}
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")
	id := newTestItem(t, s, accountID, "Lamp", "vintage")

	err := s.UpdateItem(ctx, id, accountID, domain.ItemInput{
		Name:   "Desk Lamp",
		Rating: 9, // clamped
		Tags:   []string{"modern"},
	})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}

	item, err := s.GetItem(ctx, id, accountID)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if item.Name != "Desk Lamp" || item.Rating != 5 {
		t.Errorf("update not applied: %+v", item)
	}
	if !slices.Equal(item.Tags, []string{"modern"}) {
		t.Errorf("Tags = %v, want [modern]", item.Tags)
	}

	// Unknown or foreign ids are not found.
	err = s.UpdateItem(ctx, 9999, accountID, domain.ItemInput{Name: "ghost"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateItem(9999) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteItem_KeepsTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")
	id := newTestItem(t, s, accountID, "Lamp", "brass")

	if err := s.DeleteItem(ctx, id, accountID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}

	if _, err := s.GetItem(ctx, id, accountID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetItem() after delete error = %v, want ErrNotFound", err)
	}

	tags, err := s.ListTags(ctx, accountID)
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "brass" {
		t.Errorf("tags after item delete = %+v, want brass to persist", tags)
	}
}

func TestDeleteItem_AccountIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alexID := newTestAccount(t, s, "alex")
	saraID := newTestAccount(t, s, "sara")
	id := newTestItem(t, s, alexID, "Lamp", "brass")

	if err := s.DeleteItem(ctx, id, saraID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-account DeleteItem() error = %v, want ErrNotFound", err)
	}

	// Alex's item and its tag links are untouched.
	item, err := s.GetItem(ctx, id, alexID)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if !slices.Equal(item.Tags, []string{"brass"}) {
		t.Errorf("Tags = %v, want [brass]", item.Tags)
	}
}

func TestCountItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	accountID := newTestAccount(t, s, "alex")

	newTestItem(t, s, accountID, "a")
	newTestItem(t, s, accountID, "b")

	n, err := s.CountItems(ctx, accountID)
	if err != nil {
		t.Fatalf("CountItems() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountItems() = %d, want 2", n)
	}
}
