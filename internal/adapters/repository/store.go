// Package repository persists collector state behind the CollectionStore
// port. The draw engine and battle resolver never see it; the service
// loads state before a draw and saves it afterwards.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/pkg/metrics"
)

const maxCollectorLen = 64

// CollectionStore provides read/write access to collector state.
type CollectionStore interface {
	// Load returns the collector's state. Unknown collectors get an empty
	// state, not an error.
	Load(ctx context.Context, collector string) (collection.State, error)
	// Save replaces the collector's state.
	Save(ctx context.Context, collector string, state collection.State) error
	// Reset forgets the collector. Returns ErrNotFound if it was never saved.
	Reset(ctx context.Context, collector string) error
	// Count returns the number of stored collectors.
	Count(ctx context.Context) (int, error)
	// Close releases resources held by the store.
	Close() error
}

// ValidateCollector checks a collector id: non-empty, at most 64 bytes,
// letters, digits, '-', '_' and '.' only.
func ValidateCollector(collector string) error {
	if collector == "" || len(collector) > maxCollectorLen {
		return fmt.Errorf("%w: %q", ErrInvalidCollector, collector)
	}
	if strings.IndexFunc(collector, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.')
	}) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidCollector, collector)
	}
	return nil
}

// track records latency and outcome of one store operation:
//
//	defer track("load")(&err)
func track(op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
		status := "ok"
		if errp != nil && *errp != nil {
			status = "error"
		}
		metrics.RecordCollectionOp(op, status)
	}
}
