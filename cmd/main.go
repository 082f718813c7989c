package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/config"
	"shoe-catalog-service/internal/events"
	"shoe-catalog-service/internal/repository"
)

const schemaRetryInterval = 15 * time.Second

// @title Shoe Catalog API
// @version 1.0.0
// @description Product, variant, image, collection and size chart management for a footwear store

// @host localhost:8087
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}

	// The listing falls back to fixtures while the store is down, so a
	// failed migration only delays readiness
	schema := config.NewSchemaMigrator(db, logger)
	runCtx, stopRetry := context.WithCancel(context.Background())
	defer stopRetry()
	startCtx, cancelStart := context.WithTimeout(runCtx, cfg.DBConnectTimeout+cfg.DBQueryTimeout)
	if err := schema.Ensure(startCtx); err != nil {
		logger.WithError(err).Warn("Catalog store unavailable at startup, retrying in background")
		go schema.Run(runCtx, schemaRetryInterval)
	}
	cancelStart()

	// Redis is optional; listings are served uncached without it
	redisClient := config.NewRedisClient(cfg, logger)
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	catalogRepo := repository.NewCatalogRepository(db, redisClient, cfg.DBQueryTimeout)

	// Initialize event publisher only if NATS_URL is set
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize events publisher, continuing without event publishing")
		} else {
			logger.Info("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		logger.Info("NATS_URL not set, skipping event publishing initialization")
	}
	defer eventsPublisher.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, logger, catalogRepo, schema, eventsPublisher)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Shoe catalog service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down shoe-catalog-service...")
	stopRetry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Shoe catalog service stopped")
}
