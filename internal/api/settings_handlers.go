package api

import (
	"net/http"

	"github.com/midshelf/midshelf-server/internal/domain"
	"github.com/midshelf/midshelf-server/internal/http/response"
)

// handleGetSettings returns every stored setting for the account.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsService.GetAll(r.Context(), accountID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, settings, s.logger)
}

// handleUpdateSetting upserts one setting. Unrecognized keys are rejected.
func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	var in domain.SettingInput
	if err := decodeJSON(r, &in); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	setting, err := s.settingsService.Update(r.Context(), accountID(r.Context()), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, setting, s.logger)
}
