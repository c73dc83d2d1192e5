package cache

import (
	"context"
	"time"

	"capsule-labeling-be/pkg/registry"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache keeps tables for ttl and purges expired items every 2*ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCache) Get(_ context.Context, ref string) (*registry.Table, bool) {
	if x, found := c.cache.Get(ref); found {
		return x.(*registry.Table).Clone(), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, ref string, table *registry.Table) {
	c.cache.Set(ref, table.Clone(), gocache.DefaultExpiration)
}

func (c *MemoryCache) Delete(_ context.Context, ref string) {
	c.cache.Delete(ref)
}
