package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by repositories. pgxmock satisfies it
// too, which is what the unit tests rely on.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PhotoRepository implements repository.PhotoRepository using PostgreSQL.
// Photo bytes live in blob storage; this table holds only upload metadata.
type PhotoRepository struct {
	db DB
}

var _ repository.PhotoRepository = (*PhotoRepository)(nil)

// NewPhotoRepository creates a new PostgreSQL-backed photo metadata repository.
func NewPhotoRepository(db DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Save inserts a photo metadata record.
func (r *PhotoRepository) Save(ctx context.Context, meta *repository.PhotoMetadata) error {
	query := `
		INSERT INTO photos (id, content_type, size_bytes, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		meta.ID,
		meta.ContentType,
		meta.SizeBytes,
		meta.UploadedBy,
		meta.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}

	return nil
}

// GetByID retrieves photo metadata by id.
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*repository.PhotoMetadata, error) {
	query := `
		SELECT id, content_type, size_bytes, uploaded_by, uploaded_at
		FROM photos
		WHERE id = $1`

	var meta repository.PhotoMetadata
	err := r.db.QueryRow(ctx, query, id).Scan(
		&meta.ID,
		&meta.ContentType,
		&meta.SizeBytes,
		&meta.UploadedBy,
		&meta.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("photo", id)
		}
		return nil, fmt.Errorf("scan photo: %w", err)
	}

	return &meta, nil
}

// Delete removes a photo metadata record by id.
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM photos WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("photo", id)
	}

	return nil
}
