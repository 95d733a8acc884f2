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

	"github.com/scenepulse/scenepulse-backend/internal/api"
	"github.com/scenepulse/scenepulse-backend/internal/config"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/repository"
	"github.com/scenepulse/scenepulse-backend/internal/service"
	"github.com/scenepulse/scenepulse-backend/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	runRepo := repository.NewRunRepository(db)

	// Initialize object storage (GCS with delegated signing, or S3-compatible)
	ctx := context.Background()
	objectStorage, err := storage.New(ctx, &storage.Config{
		Backend: storage.Backend(cfg.Storage.Backend),
		Bucket:  cfg.Storage.Bucket,
		GCS: storage.GCSConfig{
			Bucket:                cfg.Storage.Bucket,
			Project:               cfg.Storage.GCS.Project,
			SigningServiceAccount: cfg.Storage.GCS.SigningServiceAccount,
		},
		S3: storage.S3Options{
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			UseSSL:    cfg.Storage.S3.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.S3.Region,
		},
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	appLogger.WithFields(logger.Fields{
		"backend": cfg.Storage.Backend,
		"bucket":  cfg.Storage.Bucket,
	}).Info("Object storage initialized")

	// Initialize services
	runService := service.NewRunService(runRepo, objectStorage, appLogger)

	// Setup router
	router := api.SetupRouter(runService, cfg, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
