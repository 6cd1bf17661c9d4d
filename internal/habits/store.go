package habits

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jgoulah/minihabits/pkg/models"
)

// DefaultKey is the blob key the habit document is stored under
const DefaultKey = "@habits"

// BlobStore is an opaque key-value store. Get returns nil, nil for a key
// that was never set.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store persists the whole habit list as one JSON document
type Store struct {
	blobs BlobStore
	key   string
	log   *zap.Logger
}

// NewStore creates a store writing under key, or DefaultKey when empty
func NewStore(blobs BlobStore, key string, log *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{blobs: blobs, key: key, log: log}
}

// Load reads the habit list. A missing or unparseable document yields an
// empty list; only a failing backend is an error.
func (s *Store) Load(ctx context.Context) ([]models.Habit, error) {
	data, err := s.blobs.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.key, err)
	}
	if data == nil {
		return nil, nil
	}

	habits, skipped, err := models.DecodeDocument(data)
	if err != nil {
		s.log.Warn("ignoring malformed habit document",
			zap.String("key", s.key),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return nil, nil
	}
	if skipped > 0 {
		s.log.Warn("skipped habits without a unique id", zap.Int("skipped", skipped))
	}

	return habits, nil
}

// Save replaces the stored document with habits
func (s *Store) Save(ctx context.Context, habits []models.Habit) error {
	data, err := models.EncodeDocument(habits)
	if err != nil {
		return err
	}
	if err := s.blobs.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	return nil
}

// Export returns the document exactly as it would be saved
func (s *Store) Export(habits []models.Habit) ([]byte, error) {
	return models.EncodeDocument(habits)
}
