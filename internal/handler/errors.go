package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lanekeeper/lanekeeper/internal/service"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "start must be before end")
	case errors.Is(err, service.ErrUnknownLane):
		writeError(w, http.StatusBadRequest, "UNKNOWN_LANE", "lane does not exist")
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "missing or invalid fields")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "RESERVATION_NOT_FOUND", "reservation not found")
	case errors.Is(err, service.ErrSlotTaken):
		writeError(w, http.StatusConflict, "SLOT_TAKEN", "lane already reserved for that interval")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "username already taken")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
