package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/svaldez/socialnet-api/internal/database"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError sends an error JSON response. An optional field name
// scopes the error to the offending request field.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if field != "" {
		response["field"] = field
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondDomainError maps a domain error to its HTTP shape. Anything
// outside the taxonomy is an infrastructure failure and surfaces as a
// sanitized 500 so driver detail never reaches external callers.
func respondDomainError(w http.ResponseWriter, err error) {
	if field, ok := database.IsDuplicate(err); ok {
		respondJSONError(w, http.StatusBadRequest, "Duplicate", field+" is already taken", field)
		return
	}

	switch {
	case errors.Is(err, database.ErrAlreadyFollowing):
		respondJSONError(w, http.StatusConflict, "Conflict", "already following this user", "")
	case errors.Is(err, database.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", "resource not found", "")
	case errors.Is(err, database.ErrInvalidInput):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error(), "")
	default:
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", "")
	}
}

// sanitizeErrorMessage truncates overly long messages before they reach
// a client.
func sanitizeErrorMessage(message string) string {
	if len(message) > 200 {
		return message[:200] + "..."
	}
	return message
}
