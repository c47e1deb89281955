package handler

import (
	"net/http"

	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/handler/dto"
)

// LaneHandler serves the lane catalog.
type LaneHandler struct {
	catalog *catalog.Catalog
}

// NewLaneHandler creates a new LaneHandler.
func NewLaneHandler(cat *catalog.Catalog) *LaneHandler {
	return &LaneHandler{catalog: cat}
}

// List handles GET /api/lanes.
func (h *LaneHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.LanesResponse{
		Lanes: h.catalog.Lanes(),
	})
}
