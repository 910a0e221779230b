package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/midshelf/midshelf-server/internal/errors"
	"github.com/midshelf/midshelf-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"name": "Dune"}, testLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	result := decodeEnvelope(t, w)
	assert.True(t, result.Success)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Error)
}

func TestJSON_ErrorStatusClearsSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusNotFound, nil, testLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"ok": "yes"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorWithDetails(w, http.StatusBadRequest, "validation failed",
		map[string]string{"name": "is required"}, testLogger())

	result := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, result.Success)
	assert.Equal(t, "validation failed", result.Error)
	assert.NotNil(t, result.Details)
}

func TestHandleError_AppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", apperrors.NotFound("item not found"), http.StatusNotFound},
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest},
		{"conflict", apperrors.Conflict("username taken"), http.StatusConflict},
		{"transfer", apperrors.Transfer("import failed"), http.StatusUnprocessableEntity},
		{"unauthorized", apperrors.Unauthorized("no session"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, testLogger())
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, decodeEnvelope(t, w).Success)
		})
	}
}

func TestHandleError_StoreError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, store.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("disk exploded"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// The raw cause must not leak to the client.
	assert.NotContains(t, w.Body.String(), "disk exploded")
}
