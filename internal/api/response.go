// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinelog/internal/persistence"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithUpstreamError translates a persistence-layer error into the
// matching HTTP status. Unknown errors become a 502 since they came from an
// upstream service.
func respondWithUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, persistence.ErrUnauthorized):
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated with the persistence service")
	case errors.Is(err, persistence.ErrForbidden):
		RespondWithError(w, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, persistence.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, persistence.ErrDuplicate):
		RespondWithError(w, http.StatusConflict, "Movie is already on this watchlist")
	default:
		RespondWithError(w, http.StatusBadGateway, "Upstream service error")
	}
}
