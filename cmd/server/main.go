package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/obralink/backend/internal/application/catalog"
	movementapp "github.com/obralink/backend/internal/application/movement"
	"github.com/obralink/backend/internal/domain/movement"
	"github.com/obralink/backend/internal/infrastructure/cache"
	"github.com/obralink/backend/internal/infrastructure/config"
	"github.com/obralink/backend/internal/infrastructure/logger"
	"github.com/obralink/backend/internal/infrastructure/persistence"
	"github.com/obralink/backend/internal/interfaces/http/handler"
	"github.com/obralink/backend/internal/interfaces/http/middleware"
	"github.com/obralink/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ObraLink Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs dashboard cache invalidation and refresh notifications
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()
	invalidator := cache.NewRedisInvalidator(redisClient, cache.WithLogger(log))

	// Repositories
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	relationRepo := persistence.NewGormMovementRelationRepository(db.DB)
	conceptRepo := persistence.NewGormConceptRepository(db.DB)
	directoryRepo := persistence.NewGormDirectoryRepository(db.DB)

	// Variant resolver with the configured sentinel subcategories
	sentinels, err := cfg.Movement.Sentinels()
	if err != nil {
		log.Fatal("Invalid sentinel configuration", zap.Error(err))
	}
	resolver := movement.NewResolver(sentinels)

	// Application services
	movementService := movementapp.NewMovementService(
		movementRepo, relationRepo, conceptRepo, resolver, invalidator, invalidator, log)
	pairedService := movementapp.NewPairedService(
		movementRepo, conceptRepo, resolver,
		cfg.Movement.EgressTypeName, cfg.Movement.IngressTypeName,
		invalidator, invalidator, log)
	editService := movementapp.NewEditService(
		movementRepo, relationRepo, conceptRepo, resolver, log)
	formService := movementapp.NewFormService(conceptRepo, resolver)
	reconciliationService := movementapp.NewReconciliationService(movementRepo, invalidator, log)
	summaryService := movementapp.NewSummaryService(
		movementRepo, conceptRepo, cfg.Movement.EgressTypeName, cfg.Movement.IngressTypeName)
	conceptService := catalogapp.NewConceptService(conceptRepo)
	directoryService := catalogapp.NewDirectoryService(directoryRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.OrganizationMiddlewareWithConfig(middleware.OrganizationConfig{
		SkipPaths: []string{"/health", "/ready", "/api/v1/health", "/api/v1/ready"},
		Required:  true,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewMovementHandler(movementService, pairedService, editService, formService)).
		Register(handler.NewSummaryHandler(summaryService)).
		Register(handler.NewConceptHandler(conceptService)).
		Register(handler.NewDirectoryHandler(directoryService)).
		Register(handler.NewReconciliationHandler(reconciliationService)).
		Register(handler.NewSystemHandler(db))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Background orphan sweep across all organizations with paired rows
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Reconciliation.Enabled {
		go runReconciliation(sweepCtx, reconciliationService, movementRepo, cfg.Reconciliation, log)
		log.Info("Reconciliation sweep enabled",
			zap.Duration("interval", cfg.Reconciliation.Interval),
			zap.Bool("repair", cfg.Reconciliation.Repair),
		)
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runReconciliation sweeps for orphaned group rows on a fixed interval until
// the context is cancelled
func runReconciliation(
	ctx context.Context,
	service *movementapp.ReconciliationService,
	lister movementapp.GroupOrganizationLister,
	cfg config.ReconciliationConfig,
	log *zap.Logger,
) {
	// one pass at startup, then on the configured interval
	if err := service.SweepAll(ctx, lister, cfg.Repair); err != nil {
		log.Error("Reconciliation sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := service.SweepAll(ctx, lister, cfg.Repair); err != nil {
				log.Error("Reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}
