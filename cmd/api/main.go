// Package main is the entrypoint for the lanekeeper API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/lanekeeper/lanekeeper/internal/cache"
	"github.com/lanekeeper/lanekeeper/internal/catalog"
	"github.com/lanekeeper/lanekeeper/internal/config"
	"github.com/lanekeeper/lanekeeper/internal/handler"
	"github.com/lanekeeper/lanekeeper/internal/metrics"
	"github.com/lanekeeper/lanekeeper/internal/repository"
	"github.com/lanekeeper/lanekeeper/internal/server"
	"github.com/lanekeeper/lanekeeper/internal/service"
	"github.com/lanekeeper/lanekeeper/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	cat := catalog.New(cfg.LaneCount)
	recorder := metrics.NewInMemory()

	// Reservation and user stores: in-memory by default, PostgreSQL when
	// DATABASE_URL is set.
	var (
		ledger     store.ReservationStore = store.NewMemoryLedger()
		users      store.UserStore        = store.NewMemoryUsers()
		healthDeps                        = map[string]handler.Pinger{}
		closers    []func(*server.Server)
	)

	if cfg.DatabaseURL != "" {
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		ledger = repo
		users = repo.Users()
		healthDeps["postgres"] = repo
		closers = append(closers, func(srv *server.Server) {
			srv.OnShutdown("postgres", func(context.Context) error {
				repo.Close()
				return nil
			})
		})
		logger.Info("connected to database")
	}

	// Session store: in-memory by default, Redis when REDIS_URL is set.
	var sessions store.SessionStore = store.NewMemorySessions()
	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		sessions = cacheClient.Sessions()
		healthDeps["redis"] = cacheClient
		closers = append(closers, func(srv *server.Server) {
			srv.OnShutdown("redis", func(context.Context) error {
				return cacheClient.Close()
			})
		})
		logger.Info("connected to Redis")
	}

	reservationService := service.NewReservationService(ledger, cat, recorder)
	availabilityService := service.NewAvailabilityService(ledger, cat, recorder)
	accountService := service.NewAccountService(users, sessions, recorder)

	if cfg.SeedDemoData {
		seedDemoData(ctx, logger, accountService, reservationService)
	}

	router := handler.NewRouter(handler.RouterConfig{
		Lanes:              handler.NewLaneHandler(cat),
		Availability:       handler.NewAvailabilityHandler(availabilityService, logger),
		Reservations:       handler.NewReservationHandler(reservationService, logger),
		Accounts:           handler.NewAccountHandler(accountService, logger),
		Resolver:           accountService,
		Logger:             logger,
		Snapshotter:        recorder,
		HealthDeps:         healthDeps,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(
		router,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	for _, register := range closers {
		register(srv)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"lanes", cat.Len(),
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// seedDemoData registers the demo account and books lane 1 for tomorrow
// evening, mirroring the dataset the UI walkthrough expects. Re-seeding an
// already populated store is a no-op.
func seedDemoData(ctx context.Context, logger *slog.Logger, accounts *service.AccountService, reservations *service.ReservationService) {
	auth, err := accounts.Register(ctx, "student", "password", "UI Student")
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			logger.Info("demo data already seeded")
			return
		}
		logger.Warn("failed to seed demo account", "error", err)
		return
	}

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	start := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 18, 0, 0, 0, time.UTC)

	if _, err := reservations.Reserve(ctx, service.ReserveInput{
		RequesterID: auth.User.ID,
		LaneID:      1,
		Start:       start,
		End:         start.Add(time.Hour),
	}); err != nil {
		logger.Warn("failed to seed demo reservation", "error", err)
		return
	}

	logger.Info("demo data seeded", "user_id", auth.User.ID)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
