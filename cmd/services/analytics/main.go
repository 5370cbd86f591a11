package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nara-ocean/marine-analytics/internal/archive"
	"github.com/nara-ocean/marine-analytics/internal/blobstore"
	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/handlers"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
	"github.com/nara-ocean/marine-analytics/internal/queue"
	"github.com/nara-ocean/marine-analytics/internal/router"
	"github.com/nara-ocean/marine-analytics/internal/services"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prediction archive
	var store archive.Store
	if utils.ArchiveType(strings.ToLower(cfg.Archive.Type)) != utils.ArchiveTypeNone {
		store, err = archive.New(cfg.Archive, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to open prediction archive", "type", cfg.Archive.Type, "error", err)
		}
		defer func() { _ = store.Close() }()
		logger.Info("Prediction archive ready", "type", cfg.Archive.Type)
	} else {
		logger.Warn("Prediction archive disabled")
	}

	// Completion events
	logger.Info("Connecting to event backend", "type", cfg.Events.Type)
	publisher, err := queue.NewPublisher(cfg.Events, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to event backend", "type", cfg.Events.Type, "error", err)
	}
	defer func() { _ = publisher.Close() }()

	// Chart image storage
	var chain *blobstore.Chain
	if cfg.Blobstore.Enabled {
		chain, err = blobstore.New(ctx, cfg.Blobstore, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to build blob store", "error", err)
		}
		defer func() { _ = chain.Close() }()
		logger.Info("Blob store ready", "backends", chain.Backends())
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	analyticsService := services.NewAnalyticsService(logger, cfg.Analytics, store, publisher, m)
	imageService := services.NewImageService(logger, chain, m)
	h := handlers.New(logger, analyticsService, imageService, backendSummary(cfg))

	app := router.NewApp(logger, cfg.Server)
	router.Setup(app, logger, h, m, *cfg)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func backendSummary(cfg *config.Config) map[string]string {
	blobs := "disabled"
	if cfg.Blobstore.Enabled {
		blobs = strings.Join(cfg.Blobstore.Backends, ",")
	}
	return map[string]string{
		"archive":   cfg.Archive.Type,
		"events":    cfg.Events.Type,
		"blobstore": blobs,
	}
}
