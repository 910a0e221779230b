package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/midshelf/midshelf-server/internal/http/response"
)

// Upload size cap for import endpoints.
const maxImportBytes = 32 << 20 // 32 MiB

// handleExportCSV streams the account's items as a CSV attachment.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("items_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := s.transferEngine.ExportCSV(r.Context(), accountID(r.Context()), w); err != nil {
		// Headers may already be gone; log and give up on the response.
		s.logger.Error("csv export failed", "error", err)
	}
}

// handleImportCSV replaces the account's catalog with the uploaded CSV.
// The file goes in the "file" multipart field, or as the raw request body.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer body.Close()

	result, err := s.transferEngine.ImportCSV(r.Context(), accountID(r.Context()), body)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleExportJSON streams the whole-database backup. Every account's
// data is included, so this is for the instance operator.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("midshelf_backup_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := s.transferEngine.ExportJSON(r.Context(), w); err != nil {
		s.logger.Error("json export failed", "error", err)
	}
}

// handleImportJSON replaces the entire database with the uploaded backup.
// Every session is invalidated on success, including the caller's.
func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	defer body.Close()

	if err := s.transferEngine.ImportJSON(r.Context(), body); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"message": "backup restored; all sessions have been invalidated",
	}, s.logger)
}

// importBody returns the uploaded file: the "file" multipart field when
// the request is multipart, the raw body otherwise.
func importBody(r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return file, nil
	}

	return r.Body, nil
}
