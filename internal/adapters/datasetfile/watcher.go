package datasetfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/gacha/pkg/logger"
)

const defaultDebounce = 250 * time.Millisecond

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher calls onChange after the dataset file is written, created or
// renamed into place. Bursts of events within the debounce window collapse
// into a single call.
type Watcher struct {
	path     string
	onChange func(ctx context.Context)
	debounce time.Duration
	logger   logger.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onChange func(ctx context.Context), opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done. The parent directory is watched rather
// than the file so that rename-into-place updates are seen.
func (w *Watcher) Run(ctx context.Context) (err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if closeErr := fw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info(ctx, "watching dataset", logger.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug(ctx, "dataset changed", logger.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "dataset watcher error", logger.Error(werr))
		case <-timer.C:
			w.onChange(ctx)
		}
	}
}
