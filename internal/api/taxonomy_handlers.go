package api

import (
	"net/http"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/http/response"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.taxonomyService.ListCategories(r.Context(), accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, categories, s.logger)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.taxonomyService.GetCategory(r.Context(), id, accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, category, s.logger)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.taxonomyService.CreateCategory(r.Context(), accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, category, s.logger)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.taxonomyService.UpdateCategory(r.Context(), id, accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, category, s.logger)
}

// handleDeleteCategory removes a category. Items that referenced it keep
// existing without one.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.taxonomyService.DeleteCategory(r.Context(), id, accountID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.taxonomyService.ListLocations(r.Context(), accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, locations, s.logger)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	location, err := s.taxonomyService.GetLocation(r.Context(), id, accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, location, s.logger)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var in domain.LocationInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	location, err := s.taxonomyService.CreateLocation(r.Context(), accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, location, s.logger)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var in domain.LocationInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	location, err := s.taxonomyService.UpdateLocation(r.Context(), id, accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, location, s.logger)
}

// handleDeleteLocation removes a location. Items stored there keep
// existing without one.
func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.taxonomyService.DeleteLocation(r.Context(), id, accountID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
