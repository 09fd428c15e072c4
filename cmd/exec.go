package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ticket-sales/config"
	"ticket-sales/internal/handlers"
	"ticket-sales/internal/services"
	"ticket-sales/internal/store"
	"ticket-sales/monitoring"
	"ticket-sales/security"
	"ticket-sales/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis; the API runs without it, just uncached
	redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("Redis unreachable, stats cache and rate limiting degraded: %v", err)
	}
	defer redisClient.Close()

	// Initialize store and services
	ticketStore := store.NewTicketStore(app)
	statsService := services.NewStatsService(ticketStore, redisClient, cfg.StatsCacheTTL)

	// Initialize handlers
	ticketHandler := handlers.NewTicketHandler(ticketStore, statsService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Middleware
	cors := security.NewCORS(cfg.AllowedOrigins)
	limiter := security.NewRateLimiter(redisClient, cfg.RateLimitPerMinute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start background gauge collection
	if cfg.EnableMetrics {
		monitor := monitoring.NewMonitor(statsService, cfg.MetricsInterval)
		go monitor.Run(ctx)
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(requestLogger())
		se.Router.BindFunc(cors.Middleware())

		limit := limiter.Middleware()

		// Ticket endpoints
		se.Router.GET("/api/tickets", ticketHandler.List)
		se.Router.POST("/api/tickets", ticketHandler.Create).BindFunc(limit)
		se.Router.PATCH("/api/tickets/{id}", ticketHandler.UpdateStatus).BindFunc(limit)
		se.Router.PATCH("/api/tickets/{id}/cancel", ticketHandler.Cancel).BindFunc(limit)
		se.Router.PATCH("/api/tickets/{id}/restore", ticketHandler.Restore).BindFunc(limit)
		se.Router.DELETE("/api/tickets/{id}", ticketHandler.Delete).BindFunc(limit)

		// Stats endpoint (polled by both clients)
		se.Router.GET("/api/stats", statsHandler.Get)

		// Prometheus exposition
		if cfg.EnableMetrics {
			se.Router.GET("/metrics", func(e *core.RequestEvent) error {
				promhttp.Handler().ServeHTTP(e.Response, e.Request)
				return nil
			})
		}

		// Health check
		se.Router.GET("/health", healthHandler(ticketStore, redisClient))

		// CORS preflight for any path, 404 for the rest
		se.Router.Any("/{path...}", cors.FallbackHandler())

		log.Println("Server routes registered")

		return se.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		return err
	}
	return nil
}

// requestLogger logs every API request with a correlation id.
func requestLogger() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		requestID := uuid.NewString()
		start := time.Now()

		err := e.Next()

		if err != nil {
			slog.Error("request failed",
				"id", requestID,
				"method", e.Request.Method,
				"path", e.Request.URL.Path,
				"remote", e.RealIP(),
				"duration", time.Since(start),
				"error", err,
			)
			return err
		}

		slog.Info("request",
			"id", requestID,
			"method", e.Request.Method,
			"path", e.Request.URL.Path,
			"remote", e.RealIP(),
			"duration", time.Since(start),
		)
		return nil
	}
}

func healthHandler(ticketStore *store.TicketStore, redisClient *redis.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := ticketStore.HealthCheck(); err != nil {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}

		cache := "ok"
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			cache = "degraded"
		}

		return e.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
			"cache":  cache,
		})
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
