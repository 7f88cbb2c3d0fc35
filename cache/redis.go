package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

const (
	productListPrefix = "storefront:products:v:"
	versionKey        = "storefront:products:version"
)

// RedisProductCache stores the listing under a versioned key; Invalidate bumps the
// version so stale listings simply expire.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func (r *RedisProductCache) GetProducts(ctx context.Context) ([]models.Product, error) {
	version, err := r.version(ctx)
	if err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, listKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *RedisProductCache) SetProducts(ctx context.Context, products []models.Product) error {
	version, err := r.version(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}
	if err := r.client.Set(ctx, listKey(version), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

func (r *RedisProductCache) version(ctx context.Context) (int64, error) {
	if err := r.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
		return 0, fmt.Errorf("redis setnx failed: %w", err)
	}
	v, err := r.client.Get(ctx, versionKey).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return v, nil
}

func listKey(version int64) string {
	return fmt.Sprintf("%s%d", productListPrefix, version)
}
