package api

import (
	"net/http"

	"github.com/midshelf/midshelf-server/internal/http/response"
)

// handleListTags returns all of the account's tags.
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tagService.List(r.Context(), accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tags, s.logger)
}

// handleSearchTags returns tags matching the q query parameter, for
// autocomplete.
func (s *Server) handleSearchTags(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 0)

	tags, err := s.tagService.Search(r.Context(), accountID(r.Context()), term, limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tags, s.logger)
}
