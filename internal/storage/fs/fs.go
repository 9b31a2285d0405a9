package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamdiboyraz/restaurant-review/internal/storage"
)

// Storage implements storage.Storage on the local filesystem. All files live
// directly under a single root directory; keys resolving outside the root
// are rejected.
type Storage struct {
	root string
}

var _ storage.Storage = (*Storage)(nil)

// New creates a filesystem store rooted at the given directory, creating it
// if necessary.
func New(root string) (*Storage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("fs storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("fs storage: create root %s: %w", abs, err)
	}
	return &Storage{root: abs}, nil
}

// resolve maps a key to a path under the root. Keys are flat file names;
// anything with path structure or traversal is rejected.
func (s *Storage) resolve(key string) (string, error) {
	if key == "" || key == "." || key == ".." || key != filepath.Base(key) {
		return "", fmt.Errorf("fs storage: invalid key %q", key)
	}

	path := filepath.Join(s.root, key)
	if !strings.HasPrefix(path, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("fs storage: key %q escapes storage root", key)
	}
	return path, nil
}

// Upload writes the file under its key, replacing any previous content.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	path, err := s.resolve(input.Key)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("fs storage: create %s: %w", input.Key, err)
	}

	if _, err := io.Copy(f, input.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("fs storage: write %s: %w", input.Key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("fs storage: close %s: %w", input.Key, err)
	}

	return &storage.UploadResult{Key: input.Key}, nil
}

// Open returns a reader over the stored file.
func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("fs storage: open %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the stored file.
func (s *Storage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("fs storage: delete %s: %w", key, err)
	}
	return nil
}
