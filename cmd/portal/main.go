package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/config"
	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/auth"
	"github.com/rsjournalism/student-portal/internal/loader"
	"github.com/rsjournalism/student-portal/internal/nav"
	"github.com/rsjournalism/student-portal/internal/payment"
	"github.com/rsjournalism/student-portal/internal/profile"
	"github.com/rsjournalism/student-portal/internal/session"
	"github.com/rsjournalism/student-portal/internal/storage"
	"github.com/rsjournalism/student-portal/internal/storage/memory"
	"github.com/rsjournalism/student-portal/internal/storage/sqlite"
	v1 "github.com/rsjournalism/student-portal/internal/web/v1"
	"github.com/rsjournalism/student-portal/middleware"
)

func main() {
	// Load configuration from environment variables (with .env file support for local dev)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize structured logger
	logger, err := middleware.NewLogger(&cfg.Logging)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("port", cfg.Service.Port),
		zap.String("api_base_url", cfg.API.BaseURL),
	)

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		provider, err := middleware.InitTracing(cfg)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			tp = provider
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	} else {
		logger.Info("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(&cfg.Profiling); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized",
				zap.String("endpoint", cfg.Profiling.Endpoint),
			)
			defer middleware.StopProfiling()
		}
	} else {
		logger.Info("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Open durable key-value storage. An empty path selects the
	// in-memory store: nothing persists, every start is logged out.
	var store storage.Store
	if cfg.Storage.Path != "" {
		store, err = sqlite.New(cfg.Storage.Path)
		if err != nil {
			logger.Fatal("Failed to open storage", zap.Error(err))
		}
		logger.Info("Durable storage opened", zap.String("path", cfg.Storage.Path))
	} else {
		store = memory.New()
		logger.Info("Using in-memory storage (STORAGE_PATH empty)")
	}
	defer store.Close()

	// Session store rehydrates from storage on construction.
	sessions := session.New(store, logger)
	sessions.OnClear(func() {
		logger.Info("Session cleared; UI should return to the login entry point")
	})

	// Backend client and flows.
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.TokenFromStorage(store), logger)
	authSvc := auth.NewService(client, sessions, store, &cfg.API, logger)
	profileSvc := profile.NewService(client, sessions, store, &cfg.API, logger)
	paymentSvc := payment.NewService(client, &cfg.API)
	loaders := loader.New(sessions, profileSvc, paymentSvc, logger)
	navStore := nav.New(store)

	handler := v1.NewHandler(authSvc, profileSvc, loaders, sessions, navStore)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	// Tracing middleware (must be first for context propagation)
	r.Use(middleware.TracingMiddleware())

	// Logging middleware (must be before Prometheus middleware)
	r.Use(middleware.LoggingMiddleware(logger))

	// Prometheus middleware
	if cfg.Metrics.Enabled {
		r.Use(middleware.PrometheusMiddleware())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/auth/request-otp", handler.RequestOTP)
		apiV1.POST("/auth/verify-otp", handler.VerifyOTP)
		apiV1.POST("/auth/logout", handler.Logout)
		apiV1.GET("/session", handler.GetSession)
		apiV1.GET("/pages/profile", handler.ProfilePage)
		apiV1.GET("/pages/payments", handler.PaymentsPage)
		apiV1.PUT("/profile", handler.UpdateProfile)
		apiV1.POST("/profile/avatar", handler.UploadAvatar)
		apiV1.GET("/nav", handler.GetNav)
		apiV1.PUT("/nav", handler.SetNav)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting portal service", zap.String("port", cfg.Service.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown - modern signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Fail readiness first and wait for propagation before stopping HTTP.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
	}

	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// Explicit cleanup sequence: HTTP server → detached enrichments →
	// storage → tracer.

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	// Let in-flight profile enrichments finish their session writes.
	authSvc.WaitEnrichments()

	if err := store.Close(); err != nil {
		logger.Error("Storage close error", zap.Error(err))
	} else {
		logger.Info("Storage closed")
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		} else {
			logger.Info("Tracer shutdown complete")
		}
	}

	logger.Info("Graceful shutdown complete")
}
