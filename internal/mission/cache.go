package mission

import (
	"context"
	"sync"

	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// CacheKey is the single slot under which the full alert list is cached.
const CacheKey = "all_alerts"

// AlertCache caches the full alert list under a single constant key. Get loads
// lazily from the store on a miss; Invalidate clears the slot unconditionally.
// A race between a concurrent recompute and an invalidation may leave a stale
// list cached until the next invalidation; the listing endpoint tolerates that.
type AlertCache interface {
	Get(ctx context.Context) ([]models.Alert, error)
	Invalidate(ctx context.Context) error
}

// MemoryCache is the in-process AlertCache.
type MemoryCache struct {
	store AlertStore

	mu     sync.RWMutex
	alerts []models.Alert
	valid  bool
}

// NewMemoryCache creates a memory cache loading from store.
func NewMemoryCache(store AlertStore) *MemoryCache {
	return &MemoryCache{store: store}
}

// Get returns the cached list, loading it from the store on a miss.
func (c *MemoryCache) Get(ctx context.Context) ([]models.Alert, error) {
	c.mu.RLock()
	if c.valid {
		alerts := c.alerts
		c.mu.RUnlock()
		return alerts, nil
	}
	c.mu.RUnlock()

	alerts, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.alerts = alerts
	c.valid = true
	c.mu.Unlock()

	return alerts, nil
}

// Invalidate clears the slot.
func (c *MemoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.alerts = nil
	c.valid = false
	c.mu.Unlock()
	return nil
}
