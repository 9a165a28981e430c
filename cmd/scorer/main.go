package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"model-promotion-service/internal/adapters/primary/http/middleware"
	"model-promotion-service/internal/adapters/primary/http/serving"
	"model-promotion-service/internal/adapters/secondary/localfs"
	"model-promotion-service/internal/adapters/secondary/s3"
	"model-promotion-service/internal/config"
	output "model-promotion-service/internal/core/ports/output"
	"model-promotion-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// s3:// artifacts go through the object store; anything else is read
	// from the local filesystem.
	var store output.ArtifactStore
	if strings.HasPrefix(cfg.Scorer.ArtifactURI, "s3://") {
		store, err = s3.NewArtifactStore(&cfg.S3, log.StandardLogger())
		if err != nil {
			log.Fatalf("init artifact store: %v", err)
		}
	} else {
		store = localfs.NewArtifactStore("/")
	}

	scoringSvc := services.NewScoringService(store, cfg.Scorer.ArtifactURI)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	h := serving.New(scoringSvc)
	h.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithField("artifact", cfg.Scorer.ArtifactURI).Infof("starting scorer on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down scorer...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("scorer stopped")
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
