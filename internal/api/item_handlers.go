package api

import (
	"net/http"
	"strconv"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/http/response"
)

// handleListItems returns the account's items, newest first.
// Query parameters: category_id, tag, limit.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	filter := domain.ItemFilter{
		TagName: r.URL.Query().Get("tag"),
		Limit:   queryInt(r, "limit", 0),
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "invalid category_id", s.logger)
			return
		}
		filter.CategoryID = &id
	}

	items, err := s.itemService.List(r.Context(), accountID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, items, s.logger)
}

// handleGetItem returns a single item with its tags.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := s.itemService.Get(r.Context(), id, accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleCreateItem creates an item, resolving tag names as it goes.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in domain.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := s.itemService.Create(r.Context(), accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, item, s.logger)
}

// handleUpdateItem rewrites an item, including its full tag set.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var in domain.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	item, err := s.itemService.Update(r.Context(), id, accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleDeleteItem removes an item. Its tags stay behind.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.itemService.Delete(r.Context(), id, accountID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
