package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to REDIS_URL. It returns nil when Redis is not
// configured or not reachable; callers then run without caching.
func NewRedisClient(cfg *Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, listing cache disabled")
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse Redis URL (caching will be disabled)")
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis (caching will be disabled)")
		client.Close()
		return nil
	}
	logger.Info("✓ Redis connected successfully")
	return client
}
