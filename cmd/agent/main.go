package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lifecompass/attribution/internal/api"
	"github.com/lifecompass/attribution/internal/backend"
	"github.com/lifecompass/attribution/internal/factory"
	"github.com/lifecompass/attribution/internal/services/attribution"
	redisstorage "github.com/lifecompass/attribution/internal/storage/redis"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:       logger,
		StorageType:  os.Getenv("STORAGE_TYPE"),
		AssignerMode: os.Getenv("ASSIGNER_MODE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Backend endpoints
	backendCfg := backend.DefaultConfig()
	if url := os.Getenv("BACKEND_URL"); url != "" {
		backendCfg.BaseURL = url
	}
	if url := os.Getenv("ACHIEVEMENT_URL"); url != "" {
		backendCfg.AchievementURL = url
	}
	backendCfg.TestMode = os.Getenv("TEST_MODE") == "true"
	cfg.BackendConfig = backendCfg

	// Attribution validity window override
	if windowStr := os.Getenv("VALIDITY_WINDOW"); windowStr != "" {
		window, err := time.ParseDuration(windowStr)
		if err != nil {
			logger.Error("invalid VALIDITY_WINDOW", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.AttributionConfig = attribution.Config{ValidityWindow: window}
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start outbound delivery
	app.Outbox.Start()
	defer app.Outbox.Stop()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		IdentityService:    app.IdentityService,
		AttributionService: app.AttributionService,
		NotifierService:    app.NotifierService,
		FounderService:     app.FounderService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if portStr := os.Getenv("AGENT_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid AGENT_PORT", slog.String("error", err.Error()))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("agent started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("agent stopped")
}
