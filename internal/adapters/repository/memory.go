package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore keeps collector state in a map. State is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]collection.State
	closed bool

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
	closeOnce             sync.Once
}

// NewMemoryStore constructs a memory store. A background goroutine
// publishes the collector count until ctx ends or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		states:                make(map[string]collection.State),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				n := len(s.states)
				s.mu.RUnlock()
				metrics.UpdateCollectionsTracked(n)
			}
		}
	}()
}

// Load implements CollectionStore.
func (s *MemoryStore) Load(_ context.Context, collector string) (st collection.State, err error) {
	defer track("load")(&err)
	if err = ValidateCollector(collector); err != nil {
		return collection.State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return collection.State{}, ErrClosed
	}
	return clone(s.states[collector]), nil
}

// Save implements CollectionStore.
func (s *MemoryStore) Save(_ context.Context, collector string, state collection.State) (err error) {
	defer track("save")(&err)
	if err = ValidateCollector(collector); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.states[collector] = clone(state)
	return nil
}

// Reset implements CollectionStore.
func (s *MemoryStore) Reset(_ context.Context, collector string) (err error) {
	defer track("reset")(&err)
	if err = ValidateCollector(collector); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.states[collector]; !ok {
		return ErrNotFound
	}
	delete(s.states, collector)
	return nil
}

// Count implements CollectionStore.
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states), nil
}

// Close stops the metrics goroutine. Later calls return ErrClosed.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// clone keeps callers from aliasing the stored slice.
func clone(st collection.State) collection.State {
	if st.Collected == nil {
		st.Collected = []string{}
		return st
	}
	st.Collected = slices.Clone(st.Collected)
	return st
}
