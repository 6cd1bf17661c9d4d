package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

const fileExt = ".json"

// FileStore keeps each key in its own file under a directory. Values are
// replaced atomically so a crash never leaves a half-written file.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Close is a no-op
func (fs *FileStore) Close() error {
	return nil
}

// Get returns the value stored under key, or nil if the key is unset
func (fs *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the value stored under key
func (fs *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := renameio.WriteFile(fs.path(key), value, 0600); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written
func (fs *FileStore) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	info, err := os.Stat(fs.path(key))
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stat key %s: %w", key, err)
	}
	return info.ModTime().UTC(), true, nil
}

// path maps a key to a file name that cannot escape dir
func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, url.PathEscape(key)+fileExt)
}
