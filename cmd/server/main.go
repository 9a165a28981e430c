package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-promotion-service/internal/adapters/primary/http/handlers"
	"model-promotion-service/internal/adapters/primary/http/middleware"
	"model-promotion-service/internal/adapters/secondary/postgres"
	"model-promotion-service/internal/adapters/secondary/prometheus"
	"model-promotion-service/internal/adapters/secondary/s3"
	"model-promotion-service/internal/adapters/secondary/sagemaker"
	"model-promotion-service/internal/config"
	output "model-promotion-service/internal/core/ports/output"
	"model-promotion-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Stage configuration registry
	stages, err := config.LoadStageRegistry(cfg.Pipeline.StageConfigDir, []string{"dev", "prod"})
	if err != nil {
		log.Fatalf("load stage configs: %v", err)
	}

	// Secondary Adapters (Output Ports - Repositories)
	packageRepo := postgres.NewModelPackageRepository(pool)
	deployRepo := postgres.NewDeploymentRepository(pool)
	execRepo := postgres.NewPipelineExecutionRepository(pool)

	// Endpoint Provisioner (Optional - based on config)
	var provisioner output.EndpointProvisioner
	if cfg.Kubernetes.Enabled {
		client, err := sagemaker.NewProvisionerClient(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("provisioner init failed (continuing without endpoint provisioning): %v", err)
		} else {
			provisioner = client
			log.Info("endpoint provisioner initialized")
		}
	} else {
		log.Info("endpoint provisioning disabled")
	}

	// Artifact Store (Optional - based on config)
	var artifactStore output.ArtifactStore
	if cfg.S3.Enabled {
		store, err := s3.NewArtifactStore(&cfg.S3, log.StandardLogger())
		if err != nil {
			log.Warnf("artifact store init failed (continuing without sample payload uploads): %v", err)
		} else {
			artifactStore = store
			log.Info("artifact store initialized")
		}
	} else {
		log.Info("artifact store disabled")
	}

	// Metrics Client (Optional - based on config)
	metricsClient := prometheus.NewMetricsClient(&cfg.Prometheus)
	if cfg.Prometheus.Enabled {
		log.Info("metrics client initialized")
	} else {
		log.Info("metrics integration disabled")
	}

	// Core Services (Application Layer)
	packageSvc := services.NewModelPackageService(packageRepo, artifactStore)
	provisionSvc := services.NewProvisionService(packageRepo, deployRepo, provisioner, stages)
	securitySvc := services.NewSecurityEvaluationService(stages)
	promotionSvc := services.NewPromotionService(execRepo, packageRepo, provisionSvc, securitySvc, cfg.Pipeline.ModelPackageGroupName)
	metricsSvc := services.NewEndpointMetricsService(metricsClient)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(packageSvc, promotionSvc, provisionSvc, metricsSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/model-promotion")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
