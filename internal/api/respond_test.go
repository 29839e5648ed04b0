package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/infrastructure"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", infrastructure.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("load chat"), infrastructure.ErrNotFound), http.StatusNotFound},
		{"forbidden", infrastructure.ErrForbidden, http.StatusForbidden},
		{"conflict", infrastructure.ErrConflict, http.StatusConflict},
		{"invalid input", infrastructure.ErrInvalidInput, http.StatusBadRequest},
		{"validation error", infrastructure.NewValidationError("name", "required"), http.StatusBadRequest},
		{"missing token", infrastructure.ErrMissingToken, http.StatusUnauthorized},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRespondError_UnknownErrorIsNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused"))
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRespondError_ValidationErrorIncludesField(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, infrastructure.NewValidationError("kind", "must be group or channel"))
	assert.Contains(t, rec.Body.String(), `"field":"kind"`)
	assert.Contains(t, rec.Body.String(), "must be group or channel")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "ok", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := DecodeJSON(req, &dst)
	assert.ErrorIs(t, err, infrastructure.ErrInvalidInput)
}
