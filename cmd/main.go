package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/duynhne/chat-bff/config"
	"github.com/duynhne/chat-bff/internal/core/domain"
	"github.com/duynhne/chat-bff/internal/core/repository"
	logicv1 "github.com/duynhne/chat-bff/internal/logic/v1"
	"github.com/duynhne/chat-bff/internal/upstream"
	webv1 "github.com/duynhne/chat-bff/internal/web/v1"
	"github.com/duynhne/chat-bff/middleware"
)

func main() {
	// Load .env (if present) and configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize Zerolog with LOG_LEVEL from config
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.Port).
		Msg("Service starting")

	// Initialize OpenTelemetry tracing
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		} else {
			log.Info().
				Str("endpoint", cfg.Tracing.Endpoint).
				Float64("sample_rate", cfg.Tracing.SampleRate).
				Msg("Tracing initialized")
		}
	} else {
		log.Info().Msg("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(cfg); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize profiling")
		} else {
			log.Info().
				Str("endpoint", cfg.Profiling.Endpoint).
				Msg("Profiling initialized")
			defer middleware.StopProfiling()
		}
	} else {
		log.Info().Msg("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Session store (backend selected by config)
	var store domain.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		store = repository.NewRedisSessionStore(client, cfg.SessionTTL())
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session store configured")
	default:
		store = repository.NewMemorySessionStore(cfg.SessionTTL(), cfg.SweepInterval())
		log.Info().
			Dur("ttl", cfg.SessionTTL()).
			Dur("sweep_interval", cfg.SweepInterval()).
			Msg("In-memory session store configured; sessions reset on restart")
	}
	defer store.Close()

	ragClient := upstream.New(cfg.Upstream.URL, cfg.Upstream.APIKey, cfg.UpstreamTimeout())
	authService := logicv1.NewAuthService(store, cfg.Auth.AllowedDomains)
	requireSession := middleware.SessionAuth(store)

	r := gin.New()
	r.Use(gin.Recovery())

	var isShuttingDown atomic.Bool

	// Middleware chain: CORS first so preflights short-circuit before auth
	r.Use(middleware.CORS(cfg.CORS.FrontendURL))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Service.Name))
	}
	r.Use(middleware.Logging())
	r.Use(middleware.Prometheus())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"config": gin.H{
				"allowedDomains": cfg.Auth.AllowedDomains,
				"ragApiUrl":      cfg.Upstream.URL,
				"port":           cfg.Service.Port,
			},
		})
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
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Service descriptor
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Chat App BFF",
			"version":     cfg.Service.Version,
			"description": "Backend-for-Frontend for Chat Application",
			"endpoints": gin.H{
				"health": "/health",
				"auth": gin.H{
					"login":  "POST /auth/login",
					"logout": "POST /auth/logout",
					"me":     "GET /auth/me",
				},
				"api": gin.H{
					"rag":                "POST /api/rag",
					"conversations":      "GET /api/conversations",
					"createConversation": "POST /api/conversations",
					"getConversation":    "GET /api/conversations/:id",
					"updateConversation": "PUT /api/conversations/:id",
					"deleteConversation": "DELETE /api/conversations/:id",
					"filters":            "GET /api/filters",
					"updateFilters":      "PUT /api/filters",
					"changelog":          "GET /api/changelog",
					"onboarding":         "GET /api/onboarding",
					"about":              "GET /api/about",
				},
			},
		})
	})

	// Auth routes (login/logout public, me behind session auth)
	authHandler := webv1.NewHandler(authService)
	authHandler.RegisterRoutes(r.Group("/auth"), requireSession)

	// Proxied API routes, all behind session auth
	proxyHandler := webv1.NewProxyHandler(ragClient)
	api := r.Group("/api")
	api.Use(requireSession)
	proxyHandler.RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Starting chat BFF")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	// Fail readiness first and wait for propagation before HTTP shutdown.
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay started")
		time.Sleep(drainDelay)
		log.Info().Dur("delay", drainDelay).Msg("Readiness drain delay completed")
	}

	// Shutdown context with configurable timeout
	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Dur("timeout", shutdownTimeout).Msg("Shutting down server...")

	// 1. Shutdown HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		log.Info().Msg("HTTP server shutdown complete")
	}

	// 2. Close session store (stops the sweep janitor / redis pool)
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("Session store close error")
	}

	// 3. Shutdown tracer
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		} else {
			log.Info().Msg("Tracer shutdown complete")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
