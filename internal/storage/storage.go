package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no file exists under the requested key.
var ErrNotFound = errors.New("storage: file not found")

// Storage defines the interface for photo blob storage.
type Storage interface {
	// Upload stores a file under its key and returns the stored key.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Open returns a reader over the stored file. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by its key. Absent keys return ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for storing a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload.
type UploadResult struct {
	Key string
}
