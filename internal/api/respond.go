package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"parley/infrastructure"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// RespondError maps domain errors onto HTTP statuses. Anything outside
// the known taxonomy is logged and surfaced as a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	var validationErr *infrastructure.ValidationError
	if errors.As(err, &validationErr) {
		RespondJSON(w, http.StatusBadRequest, errorBody{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, infrastructure.ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, infrastructure.ErrForbidden):
		RespondJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, infrastructure.ErrConflict):
		RespondJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, infrastructure.ErrInvalidInput):
		RespondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, infrastructure.ErrUnauthorized),
		errors.Is(err, infrastructure.ErrMissingToken),
		errors.Is(err, infrastructure.ErrInvalidToken),
		errors.Is(err, infrastructure.ErrTokenExpired):
		RespondJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		slog.Error("Unexpected error", "error", err)
		RespondJSON(w, http.StatusInternalServerError, errorBody{Error: infrastructure.ErrInternalServer.Error()})
	}
}

func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return infrastructure.NewValidationError("body", "malformed JSON")
	}
	return nil
}
