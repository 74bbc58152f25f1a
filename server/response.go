package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/ingest"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeDomainError maps a domain error onto an HTTP status and body.
// Not-found → 404, conflicts and invalid input → 400, auth → 401,
// user-correctable ingestion errors → 400, everything else → 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsNotFoundError(err):
		writeError(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, errors.ErrInvalidRequest), errors.IsConflictError(err):
		writeError(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, errors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, userMessage(err))
	case ingest.IsUserError(err):
		writeError(w, http.StatusBadRequest, userMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// userMessage strips wrapping noise down to the outermost message chain
func userMessage(err error) string {
	return err.Error()
}

// readJSON reads and decodes a JSON request body
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return err
	}
	return nil
}

// requireMethod checks if the request method matches the expected method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// requireMethods checks if the request method matches one of the expected methods
func requireMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}
