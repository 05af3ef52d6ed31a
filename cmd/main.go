package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"trainerdesk/docs"
	"trainerdesk/internal/caching"
	"trainerdesk/internal/common"
	"trainerdesk/internal/config"
	"trainerdesk/internal/handlers"
	"trainerdesk/internal/jobs/background"
	"trainerdesk/internal/logging"
	"trainerdesk/internal/metrics"
	"trainerdesk/internal/middleware"
	"trainerdesk/internal/repositories"
	"trainerdesk/internal/services"
	"trainerdesk/internal/subdomain"
	"trainerdesk/pkg/database"
)

const version = "1.0.0"

// @title TrainerDesk API
// @version 1.0
// @description Multi-tenant trainer profiles, dashboards and public pages.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "trainerdesk")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Auth.GeneratedSecret {
		logger.Warn("JWT_SECRET not set, using a generated secret; sessions will not survive a restart")
	}

	ctx := context.Background()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	// Cache
	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// Object storage
	minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		logger.Fatal("Failed to create MinIO client", zap.Error(err))
	}
	if err := minioSvc.EnsureBucketExists(ctx); err != nil {
		// uploads fail until storage is reachable; the rest of the API still serves
		logger.Error("Failed to ensure upload bucket", zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Repositories
	trainerRepo := repositories.NewTrainerRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)

	// Subdomains
	resolver := subdomain.NewResolver(cfg.Subdomain.Reserved)
	allocator := subdomain.NewAllocator(trainerRepo,
		subdomain.WithReserved(cfg.Subdomain.Reserved...),
		subdomain.WithMaxAttempts(cfg.Subdomain.MaxAttempts),
		subdomain.WithObserver(m.ObserveAllocation),
	)

	// Services
	authSvc := services.NewAuthService(userRepo, cacheSvc, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, logger)
	registrationSvc := services.NewRegistrationService(trainerRepo, userRepo, allocator, logger)
	storageSvc := services.NewStorageService(minioSvc, logger)
	trainerSvc := services.NewTrainerService(trainerRepo, userRepo, cacheSvc, storageSvc, cfg.Cache.PageTTL, logger)
	dashboardSvc := services.NewDashboardService(trainerRepo, bookingRepo, clientRepo, cacheSvc, cfg.Cache.StatsTTL, logger)

	// Handlers
	routes := &handlers.Routes{
		Auth:      handlers.NewAuthHandlers(registrationSvc, authSvc, cfg.Auth.SecureCookies, logger),
		Trainers:  handlers.NewTrainerHandlers(trainerSvc, logger),
		Pages:     handlers.NewPageHandlers(trainerSvc, logger),
		Dashboard: handlers.NewDashboardHandlers(dashboardSvc, logger),
		Uploads:   handlers.NewUploadHandlers(storageSvc, logger),
		Health:    handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, version),

		Session:     middleware.JWTMiddleware(authSvc, logger),
		AuthLimiter: middleware.AuthRateLimit(cacheSvc, cfg.RateLimit.AuthPerMinute, time.Minute, logger),
		PageLimiter: middleware.PageRateLimit(cfg.RateLimit.PageRPS, max(int(cfg.RateLimit.PageRPS)*2, 1)),
	}

	// Background jobs
	scheduler, err := background.NewJobScheduler(dashboardSvc, trainerRepo, cfg.Cache.StatsRefreshInterval, logger)
	if err != nil {
		logger.Fatal("Failed to create job scheduler", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler

	// Tenant hosts are rewritten before routing
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Pre(middleware.TenantResolver(middleware.TenantResolverConfig{
		Skipper:  middleware.SkipInfrastructure,
		Resolver: resolver,
		Metrics:  m,
	}))

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: len(cfg.CORSOrigins) > 0 && cfg.CORSOrigins[0] != "*",
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RequestMetrics(m))

	routes.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	docs.SwaggerInfo.Version = version

	scheduler.Start()

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("Starting server", zap.String("addr", addr), zap.String("version", version))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	if err := scheduler.Stop(); err != nil {
		logger.Error("Failed to stop job scheduler", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
