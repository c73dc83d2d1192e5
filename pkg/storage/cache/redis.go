package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"capsule-labeling-be/pkg/registry"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "labeling:table:"

// RedisCache shares cached tables between service instances. Redis errors
// degrade to cache misses.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, ref string) (*registry.Table, bool) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+ref).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] redis cache get %s: %v", ref, err)
		}
		return nil, false
	}
	var t registry.Table
	if err := json.Unmarshal(data, &t); err != nil {
		log.Printf("[WARN] redis cache decode %s: %v", ref, err)
		return nil, false
	}
	return &t, true
}

func (c *RedisCache) Set(ctx context.Context, ref string, table *registry.Table) {
	data, err := json.Marshal(table)
	if err != nil {
		log.Printf("[WARN] redis cache encode %s: %v", ref, err)
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+ref, data, c.ttl).Err(); err != nil {
		log.Printf("[WARN] redis cache set %s: %v", ref, err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, ref string) {
	if err := c.rdb.Del(ctx, redisKeyPrefix+ref).Err(); err != nil {
		log.Printf("[WARN] redis cache delete %s: %v", ref, err)
	}
}
