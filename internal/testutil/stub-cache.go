package testutil

import (
	"context"
	"sync"
	"time"
)

// StubCache is a map-backed cache port for service tests. It records the
// sequence of set/delete operations per key so tests can assert the
// invalidate-before-commit, repopulate-after-commit ordering.
type StubCache struct {
	mu   sync.Mutex
	data map[string][]byte

	// Ops lists cache mutations in order, e.g. "delete assembly:1".
	Ops []string

	// FailDelete makes Delete return this error, to exercise the
	// eviction-failure path.
	FailDelete error
}

func NewStubCache() *StubCache {
	return &StubCache{data: make(map[string][]byte)}
}

func (c *StubCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *StubCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.Ops = append(c.Ops, "set "+key)
	return nil
}

func (c *StubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailDelete != nil {
		return c.FailDelete
	}
	delete(c.data, key)
	c.Ops = append(c.Ops, "delete "+key)
	return nil
}

// Has reports whether a key is present, for assertions.
func (c *StubCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
