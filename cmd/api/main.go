// Package main is the entrypoint for the Taskpad API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/cache"
	"github.com/taskpad/taskpad/internal/config"
	"github.com/taskpad/taskpad/internal/handler"
	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/middleware"
	"github.com/taskpad/taskpad/internal/repository"
	"github.com/taskpad/taskpad/internal/server"
	"github.com/taskpad/taskpad/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	tokens := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	todoService := service.NewTodoService(repo, cacheClient, metricsRecorder, cfg.StoreTimeout)
	accountService, err := service.NewAccountService(repo, tokens, metricsRecorder, cfg.StoreTimeout)
	if err != nil {
		logger.Error("failed to initialize account service", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	todoHandler := handler.NewTodoHandler(todoService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, todoHandler, accountHandler, tokens, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("cache", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"auth_enabled", cfg.AuthEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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

// setupRouter configures the chi router with all routes and middleware.
// AUTH_ENABLED selects the deployment variant: with auth on, every
// /todo route requires a bearer token and results are scoped to the
// caller; with auth off, the bulk update/delete routes are exposed and
// nothing is scoped.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	todoHandler *handler.TodoHandler,
	accountHandler *handler.AccountHandler,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root banner
	r.Get("/", h.Root)

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: tokens,
	}

	// Account routes
	r.Post("/register", accountHandler.Register)
	r.Post("/login", accountHandler.Login)
	r.With(middleware.Auth(authCfg)).Get("/profile", accountHandler.Profile)

	// Todo routes
	r.Route("/todo", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(middleware.Auth(authCfg))
		}

		r.Post("/", todoHandler.Create)
		r.Get("/", todoHandler.List)
		r.Get("/{id}", todoHandler.Get)
		r.Put("/{id}", todoHandler.Update)
		r.Delete("/{id}", todoHandler.Delete)

		// Unscoped bulk operations exist only in the open variant.
		if !cfg.AuthEnabled {
			r.Put("/", todoHandler.UpdateAll)
			r.Delete("/", todoHandler.DeleteAll)
		}
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
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
