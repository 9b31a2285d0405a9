package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	"github.com/hamdiboyraz/restaurant-review/internal/storage"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// MaxPhotoSize is the largest accepted photo upload.
const MaxPhotoSize = 10 << 20 // 10 MiB

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoService stores photo blobs and their metadata. The returned photo id
// doubles as the storage key and as the URL reviews reference.
type PhotoService struct {
	storage storage.Storage
	repo    repository.PhotoRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewPhotoService creates a photo service.
func NewPhotoService(store storage.Storage, repo repository.PhotoRepository, logger *slog.Logger) *PhotoService {
	return &PhotoService{
		storage: store,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload validates and stores a photo, returning its metadata. The id is
// generated server-side; the client file name contributes nothing to it.
func (s *PhotoService) Upload(ctx context.Context, uploadedBy, contentType string, size int64, data io.Reader) (*repository.PhotoMetadata, error) {
	ext, ok := allowedPhotoTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported photo content type %q", contentType))
	}
	if size <= 0 {
		return nil, apperrors.InvalidInput("photo is empty")
	}
	if size > MaxPhotoSize {
		return nil, apperrors.InvalidInput("photo exceeds the maximum allowed size")
	}

	id := uuid.New().String() + ext

	if _, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         id,
		ContentType: contentType,
		Size:        size,
		Data:        io.LimitReader(data, MaxPhotoSize),
	}); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	meta := &repository.PhotoMetadata{
		ID:          id,
		ContentType: contentType,
		SizeBytes:   size,
		UploadedBy:  uploadedBy,
		UploadedAt:  s.now().UTC(),
	}

	if err := s.repo.Save(ctx, meta); err != nil {
		// Keep blob and metadata consistent: drop the orphaned blob.
		if delErr := s.storage.Delete(ctx, id); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to remove orphaned photo blob",
				slog.String("photo_id", id),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("save photo metadata: %w", err)
	}

	s.logger.InfoContext(ctx, "photo uploaded",
		slog.String("photo_id", id),
		slog.String("uploaded_by", uploadedBy),
		slog.Int64("size_bytes", size),
	)

	return meta, nil
}

// Open returns the photo bytes and metadata. The caller must close the
// reader.
func (s *PhotoService) Open(ctx context.Context, id string) (io.ReadCloser, *repository.PhotoMetadata, error) {
	meta, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load photo metadata: %w", err)
	}

	rc, err := s.storage.Open(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, nil, apperrors.NotFound("photo", id)
		}
		return nil, nil, fmt.Errorf("open photo: %w", err)
	}

	return rc, meta, nil
}

// Delete removes the photo blob and its metadata.
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete photo metadata: %w", err)
	}

	if err := s.storage.Delete(ctx, id); err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("delete photo blob: %w", err)
	}

	s.logger.InfoContext(ctx, "photo deleted", slog.String("photo_id", id))

	return nil
}
