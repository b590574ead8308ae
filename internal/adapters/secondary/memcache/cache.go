package memcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	ports "cad-pipeline-service/internal/core/ports/output"
)

// Cache is the in-process fallback when Redis is disabled. Suitable for a
// single replica; entries do not survive a restart, which the cache contract
// explicitly permits.
type Cache struct {
	store *gocache.Cache
}

func New() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

var _ ports.Cache = (*Cache)(nil)

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}
