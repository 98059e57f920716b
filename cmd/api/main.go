package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/snapshotdev/snapshot-server/pkg/validator"

	"github.com/snapshotdev/snapshot-server/internal/adapter/handler"
	"github.com/snapshotdev/snapshot-server/internal/infrastructure/cache"
	"github.com/snapshotdev/snapshot-server/internal/infrastructure/external/zoom"
	"github.com/snapshotdev/snapshot-server/internal/usecase/snapshot"
	"github.com/snapshotdev/snapshot-server/pkg/config"
	"github.com/snapshotdev/snapshot-server/pkg/llm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize LLM client
	log.Println("🤖 Initializing LLM client...")
	sampler := llm.NewClient(&cfg.LLM, logger)

	// Initialize snapshot store
	var store cache.SnapshotStore
	switch cfg.Cache.Backend {
	case "redis":
		log.Println("📦 Connecting to Redis...")
		redisStore := cache.NewRedisStore(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.SnapshotTTL)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	default:
		log.Println("📦 Using in-memory snapshot store...")
		store = cache.NewMemoryStore(cfg.Cache.SnapshotTTL)
	}

	// Initialize snapshot workflow
	log.Println("⚙️  Initializing snapshot workflow...")
	orchestrator := snapshot.NewOrchestrator(sampler, cfg, logger)
	snapshotHandler := handler.NewSnapshotHandler(orchestrator, store, cfg, logger)

	// Initialize Zoom client when credentials are configured
	var recordingHandler *handler.Recording
	if cfg.ZoomConfigured() {
		log.Println("🎥 Initializing Zoom client...")
		zoomClient := zoom.NewClient(cfg, logger)
		recordingHandler = handler.NewRecordingHandler(zoomClient, logger)
	} else {
		log.Println("⚠️  Zoom credentials not configured; recording routes disabled")
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, snapshotHandler, recordingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
