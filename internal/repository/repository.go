package repository

import (
	"context"
	"time"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
)

// TextQuery describes a free-text search over restaurants. All fields are
// optional: an empty Query with no MinRating matches everything.
type TextQuery struct {
	Query     string
	MinRating *float64
	Page      int // zero-based
	Size      int
}

// GeoQuery describes a radius search around a coordinate.
type GeoQuery struct {
	Lat      float64
	Lon      float64
	RadiusKm float64
	Page     int // zero-based
	Size     int
}

// RestaurantRepository is the persistence gateway for restaurant aggregates.
// Implementations load and store whole documents; callers mutate the
// aggregate in memory and persist it with a single Save.
type RestaurantRepository interface {
	// GetByID returns the restaurant with the given id, or a not-found error.
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)

	// Save writes the whole aggregate, creating or replacing the document.
	Save(ctx context.Context, restaurant *domain.Restaurant) error

	// Delete removes the restaurant. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// SearchByText finds restaurants matching the query text and minimum
	// average rating, ordered by relevance.
	SearchByText(ctx context.Context, q TextQuery) (*domain.Page[domain.Restaurant], error)

	// SearchByGeo finds restaurants within the given radius of a point.
	SearchByGeo(ctx context.Context, q GeoQuery) (*domain.Page[domain.Restaurant], error)
}

// PhotoMetadata is the stored record of an uploaded photo.
type PhotoMetadata struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PhotoRepository stores photo upload metadata.
type PhotoRepository interface {
	Save(ctx context.Context, meta *PhotoMetadata) error
	GetByID(ctx context.Context, id string) (*PhotoMetadata, error)
	Delete(ctx context.Context, id string) error
}
