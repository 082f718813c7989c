package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/config"
	"shoe-catalog-service/internal/fixtures"
	"shoe-catalog-service/internal/repository"
	"shoe-catalog-service/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "delete every catalog row before loading")
	file := flag.String("file", "", "YAML dataset to load instead of the built-in demo catalog")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall time limit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	if !cfg.IsProduction() {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(cfg, logger, *reset, *file, *timeout); err != nil {
		logger.WithError(err).Error("Seed failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger, reset bool, file string, timeout time.Duration) error {
	catalog, err := loadCatalog(file)
	if err != nil {
		return err
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	redisClient := config.NewRedisClient(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	loader := seed.NewLoader(repository.NewCatalogRepository(db, redisClient, cfg.DBQueryTimeout), logger)
	if reset {
		logger.Warn("Resetting catalog")
		if _, err := loader.Reset(ctx); err != nil {
			return err
		}
	}

	_, err = loader.Load(ctx, catalog)
	return err
}

func loadCatalog(file string) (*fixtures.Catalog, error) {
	if file == "" {
		return fixtures.DemoCatalog()
	}
	return fixtures.Load(file)
}
