package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/middleware"
	"github.com/lanekeeper/lanekeeper/internal/service"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	Lanes        *LaneHandler
	Availability *AvailabilityHandler
	Reservations *ReservationHandler
	Accounts     *AccountHandler
	Resolver     middleware.SessionResolver
	Logger       *slog.Logger
	Snapshotter  metrics.Snapshotter
	HealthDeps   map[string]Pinger

	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter assembles the full route table with the standard middleware
// chain. The /api subtree splits into a public group and a token-guarded
// group.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	}
	r.Use(middleware.CORS(corsConfig))

	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		// Public surface
		r.Get("/lanes", cfg.Lanes.List)
		r.Get("/availability", cfg.Availability.Query)
		r.Get("/reservations", cfg.Reservations.ListAll)
		r.Post("/register", cfg.Accounts.Register)
		r.Post("/login", cfg.Accounts.Login)
		r.Post("/logout", cfg.Accounts.Logout)

		// Token-guarded surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.Resolver))
			r.Post("/reserve", cfg.Reservations.Reserve)
			r.Get("/my-reservations", cfg.Reservations.ListMine)
			r.Delete("/reserve/{id}", cfg.Reservations.Cancel)
		})
	})

	// Operational endpoints stay outside /api.
	health := NewHealthHandler(cfg.HealthDeps)
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)

	if cfg.Snapshotter != nil {
		metricsHandler := NewMetricsHandler(cfg.Snapshotter)
		r.Get("/metricsz", metricsHandler.Snapshot)
	}

	return r
}

// NewDefaultRouter wires handlers over the given services with the default
// middleware configuration. Convenience for tests and the in-memory server.
func NewDefaultRouter(
	lanes *LaneHandler,
	availability *service.AvailabilityService,
	reservations *service.ReservationService,
	accounts *service.AccountService,
	logger *slog.Logger,
	snapshotter metrics.Snapshotter,
) http.Handler {
	return NewRouter(RouterConfig{
		Lanes:        lanes,
		Availability: NewAvailabilityHandler(availability, logger),
		Reservations: NewReservationHandler(reservations, logger),
		Accounts:     NewAccountHandler(accounts, logger),
		Resolver:     accounts,
		Logger:       logger,
		Snapshotter:  snapshotter,
	})
}
