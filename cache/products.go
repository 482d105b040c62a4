// Package cache caches read-heavy catalog listings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"cafekiosk/model"
)

const sellingKey = "products:selling"

// ProductCache is a cache-aside layer for the selling-products
// listing. Redis failures degrade to cache misses; the caller always
// falls back to the store.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func (c *ProductCache) Get(ctx context.Context) ([]model.Product, bool) {
	val, err := c.client.Get(ctx, sellingKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("product_cache_get_failed", "error", err)
		return nil, false
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		slog.Warn("product_cache_decode_failed", "error", err)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) Set(ctx context.Context, products []model.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		slog.Warn("product_cache_encode_failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, sellingKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("product_cache_set_failed", "error", err)
	}
}

func (c *ProductCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, sellingKey).Err(); err != nil {
		slog.Warn("product_cache_invalidate_failed", "error", err)
	}
}
