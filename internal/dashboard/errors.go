package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"productdash/internal/view"
)

// jsonError is the body of every failed response.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		WriteJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, view.ErrUnknownSortKey), errors.Is(err, view.ErrMultipleSortKeys):
		WriteJSONError(w, http.StatusBadRequest, "invalid_sort", err.Error())
	case errors.Is(err, ErrUnknownAggregate):
		WriteJSONError(w, http.StatusBadRequest, "invalid_query", err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
