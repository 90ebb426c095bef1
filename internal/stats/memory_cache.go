package stats

import (
	"context"
	"sync"
)

type memoryCache struct {
	mu      sync.RWMutex
	summary Summary
	valid   bool
}

// NewMemoryCache creates an in-process stats cache for dev mode and tests.
func NewMemoryCache() Cache {
	return &memoryCache{}
}

func (c *memoryCache) Get(_ context.Context) (Summary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary, c.valid, nil
}

func (c *memoryCache) Set(_ context.Context, summary Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = summary
	c.valid = true
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = Summary{}
	c.valid = false
	return nil
}
