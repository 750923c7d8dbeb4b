package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/crisisboard/config"
	"github.com/epeers/crisisboard/docs"
	"github.com/epeers/crisisboard/internal/cache"
	"github.com/epeers/crisisboard/internal/database"
	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/handlers"
	"github.com/epeers/crisisboard/internal/middleware"
	"github.com/epeers/crisisboard/internal/repository"
	"github.com/epeers/crisisboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Crisisboard API
// @version 1.0
// @description Crisis and market analytics: metals, macro indicators, crisis feeds and market cycles.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	profile, err := cfg.Engine.Profile(cfg.ThresholdProfile)
	if err != nil {
		log.Fatalf("Invalid threshold profile: %v", err)
	}
	if _, err := services.GenerateCycle(cfg.Engine.Cycle); err != nil {
		log.Fatalf("Invalid cycle configuration: %v", err)
	}

	// Create context for initialization
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Snapshot persistence is optional
	var store services.SnapshotStore
	if cfg.PGURL != "" {
		db, err := database.New(ctx, cfg.PGURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		snapshotRepo := repository.NewSnapshotRepository(db.Pool, 10)
		if err := snapshotRepo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare database: %v", err)
		}
		store = snapshotRepo
	} else {
		log.Info("PG_URL not set, snapshots will not be persisted")
	}

	// Initialize feed client and crisis feeds
	feedClient := feeds.NewClient(cfg.Engine.HTTPTimeout)
	crisisFeeds := []services.CrisisFeed{
		services.NewInstabilityFeed(feedClient, cfg.Engine.Feeds.WorldBank, cfg.Engine.GeopoliticalWatchlist),
		services.NewFinancialStressFeed(feedClient, cfg.Engine.Feeds.WorldBank, cfg.Engine.FinancialWatchlist),
		services.NewSeismicFeed(feedClient, cfg.Engine.Feeds.Seismic, cfg.Engine.MinMagnitude),
		services.NewStormFeed(feedClient, cfg.Engine.Feeds.Storm, cfg.Engine.StormKeywords, time.Now),
	}

	// Initialize services
	marketSvc := services.NewMarketService(feedClient, cfg.Engine.Feeds.Prices, cfg.Engine.Feeds.Rates, cfg.Engine.QuoteCurrency)
	macroSvc := services.NewMacroService(feedClient, cfg.Engine.Feeds.WorldBank, cfg.Engine.MacroCountry, 0)
	dashboardSvc := services.NewDashboardService(marketSvc, macroSvc, crisisFeeds, profile, cache.NewSnapshotCache(cfg.StaleAfter), store)

	if err := dashboardSvc.Restore(ctx); err != nil {
		log.Warnf("Failed to restore snapshot: %v", err)
	}
	go dashboardSvc.Run(ctx, cfg.RefreshInterval)

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(dashboardSvc, cfg.Engine.Profiles)
	analyticsHandler := handlers.NewAnalyticsHandler(dashboardSvc, cfg.Engine.Cycle)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Dashboard routes
	router.GET("/dashboard", dashboardHandler.Get)
	router.POST("/dashboard/refresh", dashboardHandler.Refresh)
	router.GET("/dashboard/crisis/summary", dashboardHandler.CrisisSummary)
	router.GET("/dashboard/macro/annotation", dashboardHandler.MacroAnnotation)

	// Analytics routes
	router.GET("/cycle", analyticsHandler.Cycle)
	router.GET("/convert", analyticsHandler.Convert)

	// Operational routes
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (profile %s)", cfg.Port, profile.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Stop scheduled refreshes before draining requests
	stop()

	// Give outstanding requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
