package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lanekeeper/lanekeeper/internal/auth"
	"github.com/lanekeeper/lanekeeper/internal/handler/dto"
	"github.com/lanekeeper/lanekeeper/internal/service"
)

// ReservationHandler handles reservation creation, listing and cancellation.
type ReservationHandler struct {
	svc    *service.ReservationService
	logger *slog.Logger
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		svc:    svc,
		logger: logger,
	}
}

// Reserve handles POST /api/reserve.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserIDFromContext(r.Context())
	if requesterID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ReserveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "start must be an RFC3339 instant")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INTERVAL", "end must be an RFC3339 instant")
		return
	}

	reservation, err := h.svc.Reserve(r.Context(), service.ReserveInput{
		RequesterID: requesterID,
		LaneID:      req.LaneID,
		Start:       start,
		End:         end,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("reservation_created",
		"reservation_id", reservation.ID,
		"lane_id", reservation.LaneID,
		"owner_id", reservation.OwnerID,
	)

	writeJSON(w, http.StatusCreated, dto.ReservationResponse{Reservation: reservation})
}

// ListMine handles GET /api/my-reservations.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserIDFromContext(r.Context())
	if requesterID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	reservations, err := h.svc.ListMine(r.Context(), requesterID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReservationsResponse{Reservations: reservations})
}

// ListAll handles GET /api/reservations. An optional date=YYYY-MM-DD query
// parameter restricts the listing to reservations starting on that UTC day.
func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	var day time.Time
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
		day = parsed.UTC()
	}

	reservations, err := h.svc.ListAll(r.Context(), day)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReservationsResponse{Reservations: reservations})
}

// Cancel handles DELETE /api/reserve/{id}.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requesterID := auth.UserIDFromContext(r.Context())
	if requesterID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "reservation id is required")
		return
	}

	if err := h.svc.Cancel(r.Context(), requesterID, id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("reservation_cancelled", "reservation_id", id, "owner_id", requesterID)

	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
