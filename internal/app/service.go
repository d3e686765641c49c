// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gacha/internal/adapters/datasetfile"
	"github.com/okian/gacha/internal/adapters/repository"
	"github.com/okian/gacha/internal/domain/battle"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
	"github.com/okian/gacha/pkg/metrics"
)

const (
	defaultMaxListLimit = 200
	lockStripes         = 64
)

// Service implements the API dependencies for the gacha.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.CollectionStore
	resolver *battle.Resolver
	rng      draw.RandomSource
	dist     draw.Distribution
	snap     atomic.Pointer[snapshot]

	// Configuration
	datasetPath   string
	initial       *model.Dataset
	watchDataset  bool
	watchDebounce time.Duration
	maxListLimit  int
	now           func() time.Time

	// Per-collector serialization of load-modify-save.
	locks [lockStripes]sync.Mutex

	// State
	started   bool
	ownsStore bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the collection store. Without it Start creates a
// memory store, which Stop closes.
func WithStore(store repository.CollectionStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatasetPath sets the dataset file loaded on Start.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDataset installs ds on Start instead of reading a file.
func WithDataset(ds *model.Dataset) Option {
	return func(s *Service) {
		s.initial = ds
	}
}

// WithWatchDataset reloads the dataset file whenever it changes.
func WithWatchDataset(watch bool) Option {
	return func(s *Service) {
		s.watchDataset = watch
	}
}

// WithWatchDebounce sets how long the watcher waits for writes to settle.
func WithWatchDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.watchDebounce = d
		}
	}
}

// WithRandomSource sets the generator shared by draws and battles.
func WithRandomSource(rng draw.RandomSource) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithDistribution sets the grade probabilities.
func WithDistribution(d draw.Distribution) Option {
	return func(s *Service) {
		if d != nil {
			s.dist = d.Clone()
		}
	}
}

// WithMaxListLimit caps how many cards or careers one listing returns.
func WithMaxListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxListLimit = limit
		}
	}
}

// WithClock overrides the time source used to stamp collections.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rng:          draw.DefaultSource(),
		dist:         draw.UniformDistribution(),
		maxListLimit: defaultMaxListLimit,
		now:          time.Now,
		logger:       nil, // replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset, opens the default store if none was given and
// starts the dataset watcher when enabled. A missing dataset file is only
// fatal when the watcher is off, since the watcher will pick it up later.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting gacha service...")

	if err := s.dist.Validate(); err != nil {
		return fmt.Errorf("grade distribution: %w", err)
	}
	s.resolver = battle.NewResolver(battle.WithRandomSource(s.rng))

	switch {
	case s.initial != nil:
		if err := s.SetDataset(ctx, s.initial); err != nil {
			return err
		}
	case s.datasetPath != "":
		if err := s.LoadDataset(ctx); err != nil {
			if !s.watchDataset {
				return err
			}
			s.logger.Warn(ctx, "dataset unavailable, waiting for watcher", logger.Error(err))
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.store == nil {
		s.store = repository.NewMemoryStore(runCtx)
		s.ownsStore = true
		s.logger.Info(ctx, "using memory collection store")
	}

	if s.watchDataset && s.datasetPath != "" {
		opts := []datasetfile.Option{datasetfile.WithLogger(s.logger.Named("watcher"))}
		if s.watchDebounce > 0 {
			opts = append(opts, datasetfile.WithDebounce(s.watchDebounce))
		}
		w := datasetfile.NewWatcher(s.datasetPath, s.reload, opts...)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := w.Run(runCtx); err != nil {
				s.logger.Error(runCtx, "dataset watcher stopped", logger.Error(err))
			}
		}()
	}

	s.started = true
	fields := []logger.Field{
		logger.String("datasetPath", s.datasetPath),
		logger.Bool("watchDataset", s.watchDataset),
	}
	if snap := s.snap.Load(); snap != nil {
		fields = append(fields, logger.Int("cards", len(snap.ds.Players)))
	}
	s.logger.Info(ctx, "gacha service started", fields...)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping gacha service...")

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if s.ownsStore && s.store != nil {
		_ = s.store.Close()
		s.store = nil
		s.ownsStore = false
	}

	s.started = false
	s.logger.Info(context.Background(), "gacha service stopped")
}

func (s *Service) reload(ctx context.Context) {
	if err := s.LoadDataset(ctx); err != nil {
		s.logger.Warn(ctx, "dataset reload failed, keeping previous dataset", logger.Error(err))
	}
}

// collectionStore returns the store once the service has started.
func (s *Service) collectionStore() (repository.CollectionStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"datasetPath":  s.datasetPath,
		"watchDataset": s.watchDataset,
		"datasetReady": false,
	}

	if snap := s.snap.Load(); snap != nil {
		stats["datasetReady"] = true
		stats["cards"] = len(snap.ds.Players)
		stats["players"] = len(snap.careers)
		stats["generatedAt"] = snap.ds.Metadata.GeneratedAt
	}

	if s.started {
		if n, err := s.store.Count(ctx); err == nil {
			stats["collectors"] = n
			metrics.UpdateCollectionsTracked(n)
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	stats["goroutines"] = goroutines
	stats["heapAllocBytes"] = mem.HeapAlloc
	metrics.UpdateSystemGoroutineCount(goroutines)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)

	return stats
}
