package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/okian/gacha/internal/domain/collection"
)

const memoryPath = ":memory:"

// SQLiteConfig holds database settings.
type SQLiteConfig struct {
	// Path is the database file. ":memory:" keeps everything in memory.
	Path string
	// BusyTimeout is how long a writer waits on a locked database.
	BusyTimeout time.Duration
	// JournalMode is the SQLite journal mode, WAL by default.
	JournalMode string
}

// DefaultSQLiteConfig returns a config for path with WAL and a 5s busy timeout.
func DefaultSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{Path: path, BusyTimeout: 5 * time.Second, JournalMode: "WAL"}
}

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	collector  TEXT PRIMARY KEY,
	collected  TEXT NOT NULL,
	pull_count INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore persists collector state in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database, creating its directory and schema.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)",
		cfg.Path, cfg.BusyTimeout.Milliseconds(), cfg.JournalMode)
	if cfg.Path == memoryPath {
		dsn = memoryPath
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; an in-memory database also exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load implements CollectionStore.
func (s *SQLiteStore) Load(ctx context.Context, collector string) (st collection.State, err error) {
	defer track("load")(&err)
	if err = ValidateCollector(collector); err != nil {
		return collection.State{}, err
	}

	var (
		raw     string
		updated int64
	)
	err = s.db.QueryRowContext(ctx,
		"SELECT collected, pull_count, updated_at FROM collections WHERE collector = ?", collector,
	).Scan(&raw, &st.PullCount, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return collection.State{Collected: []string{}}, nil
	}
	if err != nil {
		return collection.State{}, fmt.Errorf("failed to load collection %s: %w", collector, err)
	}
	if err = json.Unmarshal([]byte(raw), &st.Collected); err != nil {
		return collection.State{}, fmt.Errorf("failed to decode collection %s: %w", collector, err)
	}
	if st.Collected == nil {
		st.Collected = []string{}
	}
	st.UpdatedAt = fromUnixNano(updated)
	return st, nil
}

// Save implements CollectionStore.
func (s *SQLiteStore) Save(ctx context.Context, collector string, state collection.State) (err error) {
	defer track("save")(&err)
	if err = ValidateCollector(collector); err != nil {
		return err
	}
	ids := state.Collected
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", collector, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (collector, collected, pull_count, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(collector) DO UPDATE SET
			collected = excluded.collected,
			pull_count = excluded.pull_count,
			updated_at = excluded.updated_at
	`, collector, string(raw), state.PullCount, toUnixNano(state.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save collection %s: %w", collector, err)
	}
	return nil
}

// Reset implements CollectionStore.
func (s *SQLiteStore) Reset(ctx context.Context, collector string) (err error) {
	defer track("reset")(&err)
	if err = ValidateCollector(collector); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE collector = ?", collector)
	if err != nil {
		return fmt.Errorf("failed to reset collection %s: %w", collector, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to reset collection %s: %w", collector, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count implements CollectionStore.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
