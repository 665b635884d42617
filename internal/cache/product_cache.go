// Package cache holds the optional redis read-through cache for product
// lookups. Cache failures degrade to database reads, never to errors.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/ec-shop/internal/domain/product"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const productTTL = 15 * time.Minute

type ProductCache struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewProductCache(client *redis.Client, logger zerolog.Logger) *ProductCache {
	return &ProductCache{
		client: client,
		logger: logger.With().Str("component", "product_cache").Logger(),
	}
}

func (c *ProductCache) Get(ctx context.Context, id int64) (*product.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache read failed")
		}
		return nil, false
	}
	var p product.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache entry corrupt")
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *product.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, productTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", p.ID).Msg("cache write failed")
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("product_id", id).Msg("cache invalidation failed")
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}
