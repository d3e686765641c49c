package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/pkg/metrics"
)

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = 5 * time.Minute
)

// CachedStore fronts another store with an expiring LRU of loaded states.
// Writes go through to the backing store and refresh the cache.
type CachedStore struct {
	next CollectionStore
	lru  *expirable.LRU[string, collection.State]
	size int
	ttl  time.Duration
}

// NewCachedStore wraps next.
func NewCachedStore(next CollectionStore, opts ...CacheOption) *CachedStore {
	c := &CachedStore{next: next, size: defaultCacheSize, ttl: defaultCacheTTL}
	for _, opt := range opts {
		opt(c)
	}
	c.lru = expirable.NewLRU[string, collection.State](c.size, nil, c.ttl)
	return c
}

// Load implements CollectionStore.
func (c *CachedStore) Load(ctx context.Context, collector string) (collection.State, error) {
	if st, ok := c.lru.Get(collector); ok {
		metrics.RecordCollectionCache("hit")
		return clone(st), nil
	}
	metrics.RecordCollectionCache("miss")

	st, err := c.next.Load(ctx, collector)
	if err != nil {
		return collection.State{}, err
	}
	c.lru.Add(collector, clone(st))
	return st, nil
}

// Save implements CollectionStore.
func (c *CachedStore) Save(ctx context.Context, collector string, state collection.State) error {
	if err := c.next.Save(ctx, collector, state); err != nil {
		c.lru.Remove(collector)
		return err
	}
	c.lru.Add(collector, clone(state))
	return nil
}

// Reset implements CollectionStore.
func (c *CachedStore) Reset(ctx context.Context, collector string) error {
	c.lru.Remove(collector)
	return c.next.Reset(ctx, collector)
}

// Count implements CollectionStore.
func (c *CachedStore) Count(ctx context.Context) (int, error) {
	return c.next.Count(ctx)
}

// Close purges the cache and closes the backing store.
func (c *CachedStore) Close() error {
	c.lru.Purge()
	return c.next.Close()
}

// Len returns the number of cached collectors.
func (c *CachedStore) Len() int { return c.lru.Len() }
