package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gacha/internal/adapters/http/api"
	"github.com/okian/gacha/internal/adapters/repository"
	app "github.com/okian/gacha/internal/app"
	"github.com/okian/gacha/internal/config"
	"github.com/okian/gacha/internal/domain/draw"
	"github.com/okian/gacha/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	dist, err := cfg.Distribution()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close collection store", logger.Error(err))
		}
	}()

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithWatchDataset(cfg.WatchDataset),
		app.WithDistribution(dist),
		app.WithMaxListLimit(cfg.MaxListLimit),
	}
	if cfg.RandomSeed != 0 {
		opts = append(opts, app.WithRandomSource(draw.NewSeededSource(cfg.RandomSeed)))
		log.Info(ctx, "using seeded random source", logger.Any("seed", cfg.RandomSeed))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx, svc)

	apiServer := api.NewServer(svc,
		api.WithRateLimit(cfg.DrawRatePerSec, cfg.DrawBurst),
		api.WithLogger(log.Named("http")),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// openStore builds the configured collection store, behind an LRU cache
// unless the cache is disabled.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.CollectionStore, error) {
	var store repository.CollectionStore
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		s, err := repository.OpenSQLite(ctx, repository.DefaultSQLiteConfig(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = s
		log.Info(ctx, "using sqlite collection store", logger.String("path", cfg.SQLitePath))
	default:
		store = repository.NewMemoryStore(ctx)
		log.Info(ctx, "using memory collection store")
	}

	if cfg.CollectionCacheSize > 0 {
		store = repository.NewCachedStore(store,
			repository.WithCacheSize(cfg.CollectionCacheSize),
			repository.WithCacheTTL(cfg.CollectionCacheTTL()),
		)
	}
	return store, nil
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats publishes memory, goroutine and collector gauges.
			_ = svc.GetStats()
		}
	}
}
