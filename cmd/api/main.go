package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/ticket-insights/internal/adapters/primary/http"
	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ticket-insights/internal/adapters/primary/websocket"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/importer"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/memory"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/postgres"
	redisStore "github.com/lorrc/ticket-insights/internal/adapters/secondary/redis"
	"github.com/lorrc/ticket-insights/internal/auth"
	"github.com/lorrc/ticket-insights/internal/config"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
	"github.com/lorrc/ticket-insights/migrations"
)

// sessionBackend is a session store that can report its health.
type sessionBackend interface {
	ports.SessionStore
	httpAdapter.HealthChecker
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// Background workers stop when ctx is cancelled during shutdown.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Database
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(cfg.Database.URL, migrations.FS); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Session store
	var sessions sessionBackend
	if cfg.Redis.URL != "" {
		store, err := redisStore.NewSessionStore(ctx, cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()
		sessions = store
		logger.Info("using redis session store")
	} else {
		store := memory.NewSessionStore()
		go store.Sweep(ctx, time.Minute)
		sessions = store
		logger.Warn("REDIS_URL not set, sessions are kept in memory")
	}

	// 5. Security & real-time components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// 6. Rate limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalConfig := mw.DefaultRateLimiterConfig()
		generalConfig.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		generalConfig.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(ctx, generalConfig)

		authConfig := mw.AuthRateLimiterConfig()
		authConfig.RequestsPerSecond = cfg.RateLimit.AuthRPS
		authConfig.BurstSize = cfg.RateLimit.AuthBurst
		authRateLimiter = mw.NewRateLimiter(ctx, authConfig)
	}
	uploadRateLimiter := mw.NewKeyedRateLimiter(ctx, mw.UploadRateLimiterConfig(), mw.SessionUserKey)

	// 7. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	userRepo := postgres.NewUserRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	importRepo := postgres.NewImportRepository(pool)
	txManager := postgres.NewTransactionManager(pool)

	// Services (Core)
	engine := kpi.NewEngine(kpi.Thresholds{
		domain.PriorityHighest: cfg.KPI.Highest,
		domain.PriorityHigh:    cfg.KPI.High,
		domain.PriorityMedium:  cfg.KPI.Medium,
		domain.PriorityLow:     cfg.KPI.Low,
	})
	authzService := services.NewAuthorizationService(nil)
	authService := services.NewAuthService(userRepo, sessions, tokenManager, cfg.Session.TTL)
	ticketService := services.NewTicketService(
		ticketRepo,
		importRepo,
		txManager,
		importer.NewParser(),
		authzService,
		hub,
		engine,
		logger,
	)
	dashboardService := services.NewDashboardService(ticketRepo, authzService, engine)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, authzService, errorHandler, logger)
	importHandler := httpAdapter.NewImportHandler(ticketService, errorHandler, cfg.Upload.MaxBytes, logger)
	ticketHandler := httpAdapter.NewTicketHandler(ticketService, errorHandler, logger)
	dashboardHandler := httpAdapter.NewDashboardHandler(dashboardService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, sessions, cfg.App.Version).WithRealtime(hub)

	// 8. Setup Router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard orchestrator paths)
	healthHandler.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if authRateLimiter != nil {
					r.Use(authRateLimiter.Middleware)
				}
				authHandler.RegisterRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(mw.SessionMiddleware(tokenManager, authService))
				authHandler.RegisterSessionRoutes(r)
			})
		})

		// Browsers cannot set headers on the upgrade, so the token may come in the query.
		r.With(mw.QuerySessionMiddleware(tokenManager, authService)).Get("/ws", wsHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(mw.SessionMiddleware(tokenManager, authService))

			r.Route("/imports", importHandler.Routes(uploadRateLimiter.Middleware))
			r.Route("/tickets", ticketHandler.RegisterRoutes)
			r.Route("/dashboards", dashboardHandler.RegisterRoutes)
		})
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Stops the hub (closing websocket clients), rate limiter cleanup and session sweeping.
	stop()

	logger.Info("server shutdown complete")
}
