package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/models"
)

const (
	// ProductListCacheTTL is short because the admin UI writes often
	ProductListCacheTTL = 2 * time.Minute

	productListKeyPrefix = "catalog:products:list:"
)

// ListCache is a read-through cache for product listings. A nil *ListCache
// is valid and caches nothing. Cache failures never fail the caller.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache returns nil when client is nil
func NewListCache(client *redis.Client) *ListCache {
	if client == nil {
		return nil
	}
	return &ListCache{client: client, ttl: ProductListCacheTTL}
}

// generateListCacheKey creates a deterministic cache key for a filter
func generateListCacheKey(filter models.ProductFilter) string {
	data, _ := json.Marshal(filter)
	hash := md5.Sum(data)
	return productListKeyPrefix + hex.EncodeToString(hash[:])
}

func (c *ListCache) GetProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, generateListCacheKey(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Debug("product list cache read failed")
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *ListCache) SetProducts(ctx context.Context, filter models.ProductFilter, products []models.Product) {
	if c == nil {
		return
	}
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, generateListCacheKey(filter), data, c.ttl).Err(); err != nil {
		logrus.WithError(err).Debug("product list cache write failed")
	}
}

// Invalidate drops every cached listing
func (c *ListCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, productListKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Debug("product list cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logrus.WithError(err).Debug("product list cache invalidation failed")
		}
	}
}
