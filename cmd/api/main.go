package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nova-solidum/app-onboarding/internal/config"
	"github.com/nova-solidum/app-onboarding/internal/handlers"
	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/middleware"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"github.com/nova-solidum/app-onboarding/internal/services"
	"github.com/nova-solidum/app-onboarding/internal/storage"
	"github.com/nova-solidum/app-onboarding/internal/utils/httpclient"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nova-solidum/app-onboarding/docs"
)

// @title           Nova Solidum Onboarding API
// @version         1.0
// @description     API de abertura de conta da corretora Nova Solidum. Conduz o cadastro de pessoa física e jurídica em cinco etapas, valida CPF, CNPJ, CEP e documentos, grava o cadastro e oferece a área administrativa de análise com consulta de CNPJ auditada.

// @contact.name   Nova Solidum Engineering
// @contact.email  engenharia@novasolidum.com.br

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name onboarding
// @tag.description Assistente de cadastro

// @tag.name address
// @tag.description Preenchimento de endereço por CEP

// @tag.name admin
// @tag.description Análise de cadastros e consulta de CNPJ

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig
	ctx := context.Background()

	// Initialize observability
	observability.InitTracer(ctx, cfg)
	defer observability.ShutdownTracer()

	// Initialize connections and storage bindings
	config.InitRedis(ctx)
	checks := map[string]handlers.PingFunc{
		"redis": func(ctx context.Context) error { return config.Redis.Ping(ctx).Err() },
	}

	var (
		store storage.DocumentStore
		blobs storage.BlobStore
	)
	switch cfg.StorageDriver {
	case "memory":
		logging.Logger.Warn("using in-memory storage, data is lost on restart")
		store = storage.NewMemoryDocumentStore()
		blobs = storage.NewMemoryBlobStore()
	default:
		if err := config.InitMongoDB(ctx); err != nil {
			logging.Logger.Fatal("failed to initialize MongoDB", zap.Error(err))
		}
		store = storage.NewMongoDocumentStore(config.MongoDB, logging.Logger)
		checks["mongodb"] = func(ctx context.Context) error { return config.MongoDB.Client().Ping(ctx, nil) }

		if cfg.S3Bucket == "" {
			logging.Logger.Warn("S3_BUCKET is not set, document uploads are disabled")
			break
		}
		s3Store, err := storage.NewS3BlobStore(ctx, storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			URLTTL:       cfg.BlobURLTTL,
		}, logging.Logger)
		if err != nil {
			logging.Logger.Error("failed to initialize blob store, document uploads are disabled", zap.Error(err))
			break
		}
		blobs = s3Store
	}

	// Audit workers
	lookupAudit := services.NewLookupAuditWorker(store, cfg.CNPJLookupLogsCollection, cfg.AuditWorkerCount, cfg.AuditBufferSize, logging.Logger)
	adminAudit := services.NewAdminAuditWorker(store, cfg.AuditLogsCollection, cfg.AuditWorkerCount, cfg.AuditBufferSize, logging.Logger)
	lookupAudit.Start()
	adminAudit.Start()

	// Services
	cnpjCache, err := services.NewTieredCNPJCache(config.Redis, cfg.CNPJL1CacheMaxCost, logging.Logger)
	if err != nil {
		logging.Logger.Fatal("failed to initialize CNPJ cache", zap.Error(err))
	}
	defer cnpjCache.Close()

	registry := services.NewBrasilAPIClient(cfg.BrasilAPIBaseURL, httpclient.New(cfg.CNPJLookupTimeout+time.Second), logging.Logger)
	cnpjLookup := services.NewCNPJLookupService(cnpjCache, registry, lookupAudit, cfg.CNPJCacheTTL, cfg.CNPJLookupTimeout, logging.Logger)
	addresses := services.NewAddressService(cfg.ViaCEPBaseURL, httpclient.New(5*time.Second), config.Redis, cfg.AddressCacheTTL, logging.Logger)
	registrations := services.NewRegistrationService(store, blobs, cfg.RegistrationsCollection, adminAudit, logging.Logger)
	validator := services.NewOnboardingValidator()

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(checks, logging.Logger)
	onboardingHandlers := handlers.NewOnboardingHandlers(validator, registrations, logging.Logger)
	addressHandlers := handlers.NewAddressHandlers(addresses)
	cnpjHandlers := handlers.NewCNPJHandlers(cnpjLookup)
	adminHandlers := handlers.NewAdminRegistrationHandlers(registrations, logging.Logger)

	if !cfg.Admin.Configured() {
		logging.Logger.Warn("ADMIN_EMAILS is empty, the admin area is disabled")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization", "X-Request-ID")
	corsConfig.AddExposeHeaders("X-Request-ID")

	router := gin.New()
	router.MaxMultipartMemory = handlers.MaxFormMemory
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(corsConfig),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", healthHandlers.HealthCheck)

		v1.GET("/onboarding/steps", onboardingHandlers.GetSteps)
		v1.POST("/onboarding/steps/:step/validate", onboardingHandlers.ValidateStep)
		v1.POST("/onboarding/review", onboardingHandlers.Review)
		v1.POST("/registrations", onboardingHandlers.Submit)

		v1.GET("/address/cep/:cep", addressHandlers.LookupCEP)

		admin := v1.Group("/admin")
		admin.Use(
			middleware.AuthMiddleware(cfg.JWTSecret),
			middleware.RequireAdmin(cfg.Admin),
			middleware.AdminReadAudit(adminAudit),
		)
		{
			admin.GET("/registrations", adminHandlers.ListRegistrations)
			admin.GET("/registrations/stream", adminHandlers.StreamRegistrations)
			admin.GET("/registrations/stats", adminHandlers.GetRegistrationStats)
			admin.GET("/registrations/:id", adminHandlers.GetRegistration)
			admin.PUT("/registrations/:id/status", adminHandlers.UpdateRegistrationStatus)
			admin.GET("/cnpj/:cnpj", cnpjHandlers.LookupCNPJ)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// No write timeout: admin SSE streams stay open until shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	srv.RegisterOnShutdown(adminHandlers.CloseStreams)

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage_driver", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
	}

	lookupAudit.Stop()
	adminAudit.Stop()

	logging.Logger.Info("server exited gracefully")
}
