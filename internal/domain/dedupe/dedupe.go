// Package dedupe tracks composite keys so that only the first occurrence
// of a key is accepted.
package dedupe

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys to enforce first-wins acceptance.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// Key builds the (playerId, year) composite key. It doubles as the card id.
func Key(playerID string, year int) string {
	return playerID + "-" + strconv.Itoa(year)
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
// Entries are never evicted: a dataset build must see every key.
type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
	size     atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the number of distinct keys recorded.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
