package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/user-directory/internal/api"
	"github.com/user-directory/internal/config"
	"github.com/user-directory/internal/metrics"
	"github.com/user-directory/internal/seed"
	"github.com/user-directory/internal/service"
	"github.com/user-directory/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting User Directory server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	// Seed source: remote user list, shared across sessions for SEED_CACHE_TTL
	client := seed.NewClient(seed.NewHTTPClient(&cfg.Seed), &cfg.Seed, collector, log)
	source := seed.NewCachedSource(client, cfg.Seed.CacheTTL, collector, log)

	log.Info().
		Str("seed_url", cfg.Seed.URL).
		Bool("safe_client", cfg.Seed.SafeClient).
		Dur("cache_ttl", cfg.Seed.CacheTTL).
		Msg("Seed source configured")

	// Initialize services
	services := service.NewServices(source, cfg, collector, log)

	// Start session reaper
	go services.Session.StartReaper(context.Background())

	// Initialize router
	router := api.NewRouter(services, cfg, prometheus.DefaultGatherer, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	services.Session.StopReaper()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
