package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swcommons/internal/api/handlers"
	"swcommons/internal/api/routes"
	"swcommons/internal/background"
	"swcommons/internal/config"
	"swcommons/internal/exporter"
	"swcommons/internal/grpc/server"
	"swcommons/internal/live"
	"swcommons/internal/logging"
	"swcommons/internal/mux"
	"swcommons/internal/records"
	"swcommons/internal/storage"
	"swcommons/internal/store"
	"swcommons/pkg/utils"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.CloseLogging()
	logger := logging.GetGlobalLogger()
	logger.Info("Starting Social Work Commons server", map[string]interface{}{
		"version":        handlers.Version,
		"store_driver":   cfg.Store.Driver,
		"storage_driver": cfg.Storage.Driver,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence
	gateway, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", map[string]interface{}{"error": err.Error()})
	}
	defer gateway.Close()

	objects, err := storage.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open object storage", map[string]interface{}{"error": err.Error()})
	}

	// Change feed, optionally shared with other instances through Redis
	hub := live.NewHub(logger)
	var checks []handlers.HealthCheck
	if cfg.Redis.Enabled {
		redisClient := utils.NewRedisClient(cfg)
		defer redisClient.Close()

		bridge := live.NewRedisBridge(redisClient.Client(), redisClient.Channel(), hub, logger)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				logger.Error("Redis change bridge stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
		checks = append(checks, handlers.HealthCheck{Name: "redis", Probe: redisClient.IsHealthy})
	}

	svc := records.NewService(store.WithNotifier(gateway, hub), nil, objects, logger)

	if cfg.Store.SeedOnStart {
		if _, err := svc.Seed(ctx); err != nil {
			logger.Error("Seeding failed", map[string]interface{}{"error": err.Error()})
		}
	}

	// Initialize background task manager
	taskManager := background.NewTaskManager(cfg, exporter.New(svc, svc.Registry(), objects))
	if err := taskManager.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{"error": err.Error()})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routes.SetupRoutes(e, cfg, routes.Dependencies{
		Context:     ctx,
		Records:     svc,
		Storage:     objects,
		Hub:         hub,
		TaskManager: taskManager,
		Checks:      checks,
	})

	// HTTP and gRPC share one port
	multiplexer := mux.NewMultiplexer(cfg, server.NewServer(svc), e)
	if err := multiplexer.Start(cfg.Address()); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Server listening", map[string]interface{}{
		"address":  multiplexer.GetAddress(),
		"base_url": cfg.BaseURL(),
	})

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
	defer stop()

	if err := multiplexer.Stop(); err != nil {
		logger.Error("Error stopping multiplexer", map[string]interface{}{"error": err.Error()})
	}

	// Stop task manager after the listeners so accepted exports can finish
	logger.Info("Stopping background task manager...")
	if err := taskManager.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Server shutdown complete")
}
