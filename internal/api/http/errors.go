package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ascentprep/ascentprep/internal/attempt"
	"github.com/ascentprep/ascentprep/internal/scoring"
	"github.com/ascentprep/ascentprep/internal/siteconfig"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors onto the HTTP taxonomy:
// NotFound 404, Unauthenticated 401, Forbidden 403, Conflict 409,
// ValidationError 400, everything else 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, testbank.ErrTestNotFound),
		errors.Is(err, testbank.ErrQuestionNotFound),
		errors.Is(err, attempt.ErrAttemptNotFound),
		errors.Is(err, siteconfig.ErrKeyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, attempt.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, attempt.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, attempt.ErrAlreadyCompleted),
		errors.Is(err, attempt.ErrTimeExpired):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, scoring.ErrValidation),
		errors.Is(err, testbank.ErrInvalidTest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
