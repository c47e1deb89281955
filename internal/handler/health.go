package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks connectivity of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. deps maps a dependency name
// to its pinger; optional backends that are not configured are simply not
// registered.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	if deps == nil {
		deps = map[string]Pinger{}
	}
	return &HealthHandler{deps: deps}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz. It pings each registered dependency and
// reports 503 if any is unreachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.deps))
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "unreachable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, status, map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
