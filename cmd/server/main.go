package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crosswatch/crosswatch/internal/api"
	"github.com/crosswatch/crosswatch/internal/cache"
	"github.com/crosswatch/crosswatch/internal/db"
	"github.com/crosswatch/crosswatch/internal/distribution"
	"github.com/crosswatch/crosswatch/internal/identity"
	"github.com/crosswatch/crosswatch/internal/integration"
	"github.com/crosswatch/crosswatch/internal/report"
	"github.com/crosswatch/crosswatch/internal/response"
	"github.com/crosswatch/crosswatch/internal/token"
	"github.com/crosswatch/crosswatch/internal/webauth"
	"github.com/crosswatch/crosswatch/pkg/config"
	"github.com/crosswatch/crosswatch/pkg/logging"
	"github.com/crosswatch/crosswatch/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Crosswatch API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database and migrate the schema
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Connect to Redis (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Wire core components
	identityStore := identity.NewStore(database.DB)
	tokenAuthority := token.NewAuthority(database.DB, cfg.Token)
	reportRepo := report.NewRepository(database.DB)
	responseLedger := response.NewLedger(database.DB)
	gateway := integration.NewGateway(database.DB)
	webUsers := webauth.NewStore(database.DB)

	var tracker distribution.Tracker = distribution.NewHistoryTracker(database.DB)
	if redisCache != nil {
		tracker = distribution.NewCachedTracker(tracker, redisCache, cfg.Report.TrackingTTL)
	}
	resolver := distribution.NewResolver(database.DB, tracker)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	apiRouter := api.NewRouter(
		identityStore,
		tokenAuthority,
		reportRepo,
		resolver,
		responseLedger,
		gateway,
		webUsers,
		cfg.Report,
	)
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
