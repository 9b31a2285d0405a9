package memory

import (
	"context"
	"sync"

	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// PhotoRepository is an in-memory implementation of
// repository.PhotoRepository.
type PhotoRepository struct {
	mu     sync.RWMutex
	photos map[string]repository.PhotoMetadata
}

var _ repository.PhotoRepository = (*PhotoRepository)(nil)

// NewPhotoRepository creates an empty in-memory photo metadata store.
func NewPhotoRepository() *PhotoRepository {
	return &PhotoRepository{
		photos: make(map[string]repository.PhotoMetadata),
	}
}

// Save stores the metadata record.
func (r *PhotoRepository) Save(_ context.Context, meta *repository.PhotoMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.photos[meta.ID] = *meta
	return nil
}

// GetByID returns a copy of the stored record.
func (r *PhotoRepository) GetByID(_ context.Context, id string) (*repository.PhotoMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.photos[id]
	if !ok {
		return nil, apperrors.NotFound("photo", id)
	}
	return &meta, nil
}

// Delete removes the record, erroring on absent ids.
func (r *PhotoRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.photos[id]; !ok {
		return apperrors.NotFound("photo", id)
	}
	delete(r.photos, id)
	return nil
}
