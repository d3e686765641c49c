// Package datasetfile reads and writes dataset documents on disk and
// watches them for changes.
package datasetfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/gacha/internal/domain/dataset"
	"github.com/okian/gacha/internal/domain/model"
)

// Load reads and validates the dataset at path.
func Load(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := dataset.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Save writes ds to path through a temp file and a rename, so a watcher
// never sees a half-written document.
func Save(path string, ds *model.Dataset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := dataset.Encode(tmp, ds); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
