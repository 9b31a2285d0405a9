package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hamdiboyraz/restaurant-review/internal/storage"
)

type fileEntry struct {
	contentType string
	data        []byte
}

// Storage implements storage.Storage using an in-memory map. Used in tests
// and local development. Thread-safe via sync.RWMutex.
type Storage struct {
	mu    sync.RWMutex
	files map[string]fileEntry
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory store.
func New() *Storage {
	return &Storage{
		files: make(map[string]fileEntry),
	}
}

// Upload stores the file bytes under the key, replacing previous content.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("memory storage: read %s: %w", input.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[input.Key] = fileEntry{
		contentType: input.ContentType,
		data:        data,
	}

	return &storage.UploadResult{Key: input.Key}, nil
}

// Open returns a reader over the stored bytes.
func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(entry.data)), nil
}

// Delete removes the stored file.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.files, key)
	return nil
}
