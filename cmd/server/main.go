package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amiyamandal-dev/newsreader/internal/api"
	"github.com/amiyamandal-dev/newsreader/internal/api/handlers"
	"github.com/amiyamandal-dev/newsreader/internal/api/middleware"
	"github.com/amiyamandal-dev/newsreader/internal/auth"
	"github.com/amiyamandal-dev/newsreader/internal/config"
	"github.com/amiyamandal-dev/newsreader/internal/repository"
	"github.com/amiyamandal-dev/newsreader/internal/repository/badger"
	"github.com/amiyamandal-dev/newsreader/internal/repository/sqlstore"
	"github.com/amiyamandal-dev/newsreader/internal/scheduler"
	"github.com/amiyamandal-dev/newsreader/internal/service"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting feed reader server",
		"mode", cfg.Server.Mode,
		"driver", cfg.Database.Driver,
	)

	// Initialize database
	db, err := sqlstore.New(sqlstore.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		log.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	log.Info("Database initialized", "driver", db.Driver())

	// Initialize the stats cache. Both stay nil interfaces when disabled.
	var (
		stats      repository.StatsCache
		cacheCheck handlers.CacheChecker
	)
	if cfg.Cache.Enabled {
		cacheDB, err := badger.New(cfg.Cache.Path)
		if err != nil {
			log.Error("Failed to open stats cache", "error", err)
			os.Exit(1)
		}
		defer cacheDB.Close()

		stats = badger.NewStatsCache(cacheDB, cfg.Cache.TTL)
		cacheCheck = cacheDB
		log.Info("Stats cache opened", "path", cfg.Cache.Path, "ttl", cfg.Cache.TTL.String())
	}

	// Initialize repositories
	folderRepo := sqlstore.NewFolderRepo(db)
	feedRepo := sqlstore.NewFeedRepo(db)
	itemRepo := sqlstore.NewItemRepo(db)
	settingsRepo := sqlstore.NewSettingsRepo(db)

	// Initialize services
	folderService := service.NewFolderService(folderRepo, db, stats, log)
	itemService := service.NewItemService(itemRepo, feedRepo, folderRepo, stats, service.ItemOptions{
		DefaultBatchSize: cfg.Items.DefaultBatchSize,
		MaxBatchSize:     cfg.Items.MaxBatchSize,
	}, log)
	feedService := service.NewFeedService(feedRepo, db, log)
	bulkService := service.NewBulkService(itemService, log)
	settingsService := service.NewSettingsService(settingsRepo)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	// Initialize router
	router := api.NewRouter(api.Handlers{
		Folders: handlers.NewFolderHandler(folderService, itemService, log),
		Feeds:   handlers.NewFeedHandler(feedService, itemService, log),
		Items:   handlers.NewItemHandler(itemService, bulkService, log),
		Web:     handlers.NewWebHandler(itemService, feedService, settingsService, log),
		Health:  handlers.NewHealthHandler(db, cacheCheck, log),
	}, jwtManager, limiter, cfg, log)

	engine := router.Setup()

	// Create HTTP server
	addr := cfg.Server.Address()
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start maintenance jobs
	var jobs *scheduler.Scheduler
	if cfg.Maintenance.Enabled {
		jobs = scheduler.New(ctx, cfg.Maintenance.Schedule, folderRepo, folderService, limiter, log)
		if err := jobs.Start(); err != nil {
			log.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
	}

	// Start server in goroutine
	go func() {
		log.Info("HTTP server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop background jobs
	cancel()
	if jobs != nil {
		jobs.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server stopped gracefully")
}
