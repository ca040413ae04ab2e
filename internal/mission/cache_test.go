package mission_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neosentinel/neo-sentinel/internal/mission"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// countingStore wraps a real store and counts ListAll calls so tests can see
// whether the cache hit or recomputed.
type countingStore struct {
	mission.AlertStore

	mu    sync.Mutex
	loads int
}

func (c *countingStore) ListAll(ctx context.Context) ([]models.Alert, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.AlertStore.ListAll(ctx)
}

func (c *countingStore) loadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func TestMemoryCacheLazyLoad(t *testing.T) {
	store := &countingStore{AlertStore: setupStore(t)}
	cache := mission.NewMemoryCache(store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Alert{Message: "one", Timestamp: time.Now().UTC()}))

	alerts, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, store.loadCount())

	// Second get is served from the slot.
	alerts, err = cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, 1, store.loadCount())
}

func TestMemoryCacheInvalidateForcesReload(t *testing.T) {
	store := &countingStore{AlertStore: setupStore(t)}
	cache := mission.NewMemoryCache(store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Alert{Message: "one", Timestamp: time.Now().UTC()}))

	alerts, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	require.NoError(t, store.Insert(ctx, &models.Alert{Message: "two", Timestamp: time.Now().UTC()}))
	require.NoError(t, cache.Invalidate(ctx))

	alerts, err = cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, 2, store.loadCount())
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	store := &countingStore{AlertStore: setupStore(t)}
	cache := mission.NewMemoryCache(store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Alert{Message: "one", Timestamp: time.Now().UTC()}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := cache.Get(ctx)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Invalidate(ctx))
		}()
	}
	wg.Wait()
}
