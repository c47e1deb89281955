package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/handler/dto"
	"github.com/lanekeeper/lanekeeper/internal/service"
)

// Default window applied when the date shorthand is used.
const (
	shorthandStartHour = 18
	shorthandEndHour   = 19
)

// AvailabilityHandler answers availability queries.
type AvailabilityHandler struct {
	svc    *service.AvailabilityService
	logger *slog.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(svc *service.AvailabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		svc:    svc,
		logger: logger,
	}
}

// Query handles GET /api/availability.
// Accepts either explicit start/end RFC3339 instants, or date=YYYY-MM-DD as
// shorthand for the 18:00-19:00 UTC window of that day.
func (h *AvailabilityHandler) Query(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseWindow(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Query(r.Context(), start, end)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AvailabilityResponse{
		Available:       result.Available,
		OccupiedLaneIDs: result.OccupiedLaneIDs,
	})
}

// parseWindow extracts the query window from the request. On failure it
// writes the error response and returns ok=false.
func parseWindow(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	query := r.URL.Query()

	if date := query.Get("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
		start = time.Date(day.Year(), day.Month(), day.Day(), shorthandStartHour, 0, 0, 0, time.UTC)
		end = time.Date(day.Year(), day.Month(), day.Day(), shorthandEndHour, 0, 0, 0, time.UTC)
		return start, end, true
	}

	rawStart := query.Get("start")
	rawEnd := query.Get("end")
	if rawStart == "" || rawEnd == "" {
		writeError(w, http.StatusBadRequest, "MISSING_WINDOW", "start and end (or date) are required")
		return
	}

	var err error
	start, err = time.Parse(time.RFC3339, rawStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "start must be an RFC3339 instant")
		return
	}
	end, err = time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "end must be an RFC3339 instant")
		return
	}
	return start, end, true
}
