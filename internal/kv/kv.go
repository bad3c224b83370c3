// Package kv defines the key-value capability that persists bughunt state,
// along with its memory, SQLite, and file backends.
package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/bughunt/internal/config"
	"github.com/metalagman/bughunt/internal/db"
)

// Store reads and writes opaque values by key. Get returns nil, nil for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

var _ Store = (*db.Store)(nil)

// Open returns the backend selected by cfg.Driver.
func Open(cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return db.OpenStore(cfg.Path)
	case config.DriverFile:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewFile(cfg.Path, cfg.Format)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}
