package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	"github.com/hamdiboyraz/restaurant-review/pkg/database"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

func setupRepo(t *testing.T) (*PhotoRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPhotoRepository(mock), mock
}

func samplePhoto() *repository.PhotoMetadata {
	return &repository.PhotoMetadata{
		ID:          "photo-001.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   204800,
		UploadedBy:  "user-42",
		UploadedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPhotoRepository_Save(t *testing.T) {
	repo, mock := setupRepo(t)
	meta := samplePhoto()

	mock.ExpectExec("INSERT INTO photos").
		WithArgs(meta.ID, meta.ContentType, meta.SizeBytes, meta.UploadedBy, meta.UploadedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Save(context.Background(), meta)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_Save_DBError(t *testing.T) {
	repo, mock := setupRepo(t)
	meta := samplePhoto()

	mock.ExpectExec("INSERT INTO photos").
		WithArgs(meta.ID, meta.ContentType, meta.SizeBytes, meta.UploadedBy, meta.UploadedAt).
		WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), meta)

	assert.ErrorContains(t, err, "insert photo")
}

func TestPhotoRepository_GetByID(t *testing.T) {
	repo, mock := setupRepo(t)
	meta := samplePhoto()

	rows := pgxmock.NewRows([]string{"id", "content_type", "size_bytes", "uploaded_by", "uploaded_at"}).
		AddRow(meta.ID, meta.ContentType, meta.SizeBytes, meta.UploadedBy, meta.UploadedAt)

	mock.ExpectQuery("SELECT id, content_type, size_bytes, uploaded_by, uploaded_at").
		WithArgs(meta.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), meta.ID)

	require.NoError(t, err)
	assert.Equal(t, meta, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT id, content_type, size_bytes, uploaded_by, uploaded_at").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "content_type", "size_bytes", "uploaded_by", "uploaded_at"}))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestPhotoRepository_Delete(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("DELETE FROM photos").
		WithArgs("photo-001.jpg").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "photo-001.jpg"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("DELETE FROM photos").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
