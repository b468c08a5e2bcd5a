package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/barberly/booking-engine/internal/api/router"
	appconfig "github.com/barberly/booking-engine/internal/config"
	"github.com/barberly/booking-engine/internal/http/handlers"
	"github.com/barberly/booking-engine/internal/observability/metrics"
	"github.com/barberly/booking-engine/internal/scheduleapi"
	"github.com/barberly/booking-engine/internal/wizard"
	"github.com/barberly/booking-engine/pkg/logging"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	}
	logger.Info("starting booking engine",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	tz, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.Error("invalid display timezone", "timezone", cfg.DisplayTimezone, "error", err)
		os.Exit(1)
	}

	if cfg.UpstreamBaseURL == "" {
		logger.Error("UPSTREAM_BASE_URL is required")
		os.Exit(1)
	}

	// Session store: redis in production, memory for local hacking.
	var store wizard.Store
	if cfg.UseMemorySessions {
		logger.Warn("using in-memory session store; sessions will not survive restarts")
		store = wizard.NewMemoryStore()
	} else {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = wizard.NewRedisStore(redisClient, cfg.SessionTTL)
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	apiClient := scheduleapi.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, cfg.UpstreamTimeout, logger)
	adapter := scheduleapi.NewAdapter(apiClient)

	engine := wizard.NewEngine(wizard.EngineConfig{
		Store:             store,
		Availability:      adapter,
		Booker:            adapter,
		Metrics:           bookingMetrics,
		Logger:            logger,
		BookingWindowDays: cfg.BookingWindowDays,
		Timezone:          tz,
	})

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	catalogHandler := handlers.NewCatalogHandler(apiClient, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Booking:            bookingHandler,
		Catalog:            catalogHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
