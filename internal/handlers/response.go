package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AnshRaj112/storylens-backend/internal/models"
)

// requestTimeout bounds the store calls of one request.
const requestTimeout = 5 * time.Second

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []models.FieldError `json:"errors,omitempty"`
}

// writeError maps a journal error to its HTTP status. Store causes and quota
// details are logged, never returned to the client.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not found"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: verr.Errors})
	case errors.Is(err, models.ErrAdmissionDenied):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "Too many requests. Please try again later."})
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return false
	}
	return true
}
