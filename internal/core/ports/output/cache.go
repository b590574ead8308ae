package ports

import (
	"context"
	"time"
)

// Cache is the byte-value cache port shared by the assembly store and the
// export cache. The cache is a performance layer only: the database is always
// consulted or trusted on a miss, and every entry is disposable without
// correctness loss.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
