package api

import (
	"errors"
	"net/http"

	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
)

const (
	msgMissingFields    = "Missing required fields: name, email, and phone are required"
	msgDuplicate        = "Contact already exists with this email or phone number"
	msgNotFound         = "Contact not found"
	msgInternal         = "Internal server error"
	msgInvalidJSON      = "Invalid JSON body"
	msgInvalidID        = "Invalid contact id"
	msgInvalidAll       = "Query parameter all must be true to delete every contact"
	msgMethodNotAllowed = "Method not allowed"
	msgStreamDown       = "Event stream not running"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSONStatus(w, status, errorBody{Error: message})
}

// writeServiceError maps a contacts service error onto a status code. Causes
// of internal faults are logged and never sent to the caller.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contacts.ErrValidation):
		writeError(w, http.StatusBadRequest, msgMissingFields)
	case errors.Is(err, contacts.ErrDuplicate):
		writeError(w, http.StatusConflict, msgDuplicate)
	case errors.Is(err, contacts.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		logger.ErrorCF("api", "Request failed", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"error":  err.Error(),
		})
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
