package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/agendly/agendly-platform/internal/api/router"
	"github.com/agendly/agendly-platform/internal/appointments"
	"github.com/agendly/agendly-platform/internal/blackouts"
	"github.com/agendly/agendly-platform/internal/calendar"
	appconfig "github.com/agendly/agendly-platform/internal/config"
	"github.com/agendly/agendly-platform/internal/observability/metrics"
	"github.com/agendly/agendly-platform/internal/reports"
	"github.com/agendly/agendly-platform/pkg/logging"
)

func main() {
	// Load .env in local development; env vars win in deployed environments.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agendly-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Repositories: Postgres when configured, in-memory for local development.
	var (
		blackoutRepo    blackouts.Repository
		appointmentRepo appointments.Repository
		statsHandler    *reports.StatsHandler
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		blackoutRepo = blackouts.NewPostgresRepository(pool)
		appointmentRepo = appointments.NewPostgresRepository(pool)
		statsHandler = reports.NewStatsHandler(reports.NewStatsRepository(pool), logger)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		blackoutRepo = blackouts.NewInMemoryRepository()
		appointmentRepo = appointments.NewInMemoryRepository()
	}

	// Optional redis-backed calendar cache.
	var gridCache *calendar.GridCache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, calendar cache disabled", "error", err)
		} else {
			gridCache = calendar.NewGridCache(client, cfg.CalendarCacheTTL, logger)
		}
	}

	schedulingMetrics := metrics.NewSchedulingMetrics(prometheus.DefaultRegisterer)

	// Services and handlers
	appointmentService := appointments.NewService(appointmentRepo, blackoutRepo, schedulingMetrics, gridCache, logger)
	calendarService := calendar.NewService(blackoutRepo, appointmentRepo, gridCache, schedulingMetrics, logger,
		cfg.SlotMinutes, cfg.DayOpen, cfg.DayClose)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(appointmentService, logger),
		BlackoutsHandler:    blackouts.NewHandler(blackoutRepo, logger),
		CalendarHandler:     calendar.NewHandler(calendarService, logger),
		StatsHandler:        statsHandler,
		StaffAuthSecret:     cfg.StaffJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
