package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"caixa/internal/core"
	"caixa/internal/store"
)

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Error: message})
}

// respondError maps domain and store failures onto HTTP statuses.
// Data access failures are logged server-side and reported without
// internal detail.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrAlreadyRolledOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrNoSourceExpenses):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrConstraintViolation):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case core.IsDataAccess(err):
		slog.ErrorContext(r.Context(), "Data access failure",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "data access failure")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondValidationError reports a rejected entity payload. Validation
// failures carry their message verbatim; they describe user input, not
// internals.
func respondValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}
