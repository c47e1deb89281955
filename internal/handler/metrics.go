package handler

import (
	"net/http"

	"github.com/lanekeeper/lanekeeper/internal/metrics"
)

// MetricsHandler exposes the in-memory counter snapshot.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Snapshot handles GET /metricsz.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshotter.Snapshot()

	writeJSON(w, http.StatusOK, map[string]any{
		"reservations_created":           snap.ReservationsCreated,
		"reservations_cancelled":         snap.ReservationsCancelled,
		"slot_conflicts":                 snap.SlotConflicts,
		"availability_query_count":       snap.AvailabilityQueryCount,
		"availability_duration_total_ns": snap.AvailabilityDurationTotalNs,
		"login_successes":                snap.LoginSuccesses,
		"login_failures":                 snap.LoginFailures,
		"registrations":                  snap.Registrations,
	})
}
