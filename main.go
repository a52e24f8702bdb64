package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/config"
	"github.com/nikolasamardzija/busNS-rest-api/cron"
	"github.com/nikolasamardzija/busNS-rest-api/database"
	timetableRepo "github.com/nikolasamardzija/busNS-rest-api/database/repository/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/handlers"
	"github.com/nikolasamardzija/busNS-rest-api/middleware"
	"github.com/nikolasamardzija/busNS-rest-api/routes"
	"github.com/nikolasamardzija/busNS-rest-api/services/gspns"
	"github.com/nikolasamardzija/busNS-rest-api/services/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repo := timetableRepo.NewMongoTimetableRepo(database.DB())
	idxCtx, idxCancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := repo.EnsureIndexes(idxCtx); err != nil {
		logger.Fatal("main: failed to create timetable indexes", zap.Error(err))
	}
	idxCancel()

	// upstream.
	cfg := config.AppConfig
	client := gspns.NewClient(cfg.GspnsBaseURL, cfg.GspnsTimeout, cfg.GspnsUserAgent, logger)
	resolver := gspns.NewResolver(client, utils.GetCacheClient(), cfg.BaseValuesCacheTTL, logger)

	// services.
	timetableService := &timetable.DefaultTimetableService{
		Upstream:    client,
		Resolver:    resolver,
		Repo:        repo,
		Cache:       timetable.NewRedisTimetableCache(utils.GetCacheClient(), cfg.TimetableCacheTTL),
		Listings:    gocache.New(cfg.ListingCacheTTL, 2*cfg.ListingCacheTTL),
		Logger:      logger,
		Concurrency: cfg.RefreshConcurrency,
	}

	// background refresh.
	worker := cron.InitRefreshWorker(timetableService, logger)
	scheduler, err := cron.InitRefreshScheduler(cfg.RefreshCron, []string{gspns.RvCity, gspns.RvIntercity}, logger)
	if err != nil {
		logger.Fatal("main: failed to start refresh scheduler", zap.Error(err))
	}
	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()

	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	timetableHandler := handlers.NewTimetableHandler(timetableService, queue)
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(timetableHandler, cfg.JWTSecret))

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	scheduler.Shutdown()
	worker.Shutdown()
	if err := database.Close(ctx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
