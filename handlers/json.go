package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"shiftrota/models"

	"github.com/go-playground/validator/v10"
)

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		conflictErr   *models.ConflictError
		fieldErrs     validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// Callers send MM/DD/YYYY, MM-DD-YYYY, or ISO dates depending on where the
// request originates.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",
	"1-2-2006",
}

func parseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, models.NewValidationError("invalid date format: %s", s)
}
