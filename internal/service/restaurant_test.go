package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/event"
	"github.com/hamdiboyraz/restaurant-review/internal/repository/memory"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

func newRestaurantService(t *testing.T) (*RestaurantService, *memory.Repository) {
	t.Helper()
	repo := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRestaurantService(repo, event.NopPublisher{}, logger), repo
}

func sampleInput() RestaurantInput {
	return RestaurantInput{
		Name:               "Golden Wok",
		CuisineType:        "Chinese",
		ContactInformation: "+44 20 7946 0101",
		Address: domain.Address{
			StreetNumber: "12",
			StreetName:   "High Street",
			City:         "London",
			PostalCode:   "E1 6AN",
			Country:      "UK",
		},
		GeoLocation: domain.GeoPoint{Lat: 51.5074, Lon: -0.1278},
		PhotoIDs:    []string{"front.jpg"},
	}
}

func TestRestaurantService_Create(t *testing.T) {
	svc, repo := newRestaurantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Golden Wok", created.Name)
	assert.Zero(t, created.AverageRating)
	assert.Empty(t, created.Reviews)
	require.Len(t, created.Photos, 1)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, stored.Name)
}

func TestRestaurantService_Update(t *testing.T) {
	svc, repo := newRestaurantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	// Attach a review directly to confirm updates keep it.
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	stored.Reviews = []domain.Review{{ID: "rev1", Rating: 4, WrittenBy: alice}}
	stored.RecomputeAverageRating()
	require.NoError(t, repo.Save(ctx, stored))

	in := sampleInput()
	in.Name = "Golden Wok II"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Golden Wok II", updated.Name)
	assert.Len(t, updated.Reviews, 1)
	assert.Equal(t, 4.0, updated.AverageRating)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, "missing", in)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRestaurantService_Delete(t *testing.T) {
	svc, repo := newRestaurantService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRestaurantService_Search(t *testing.T) {
	svc, repo := newRestaurantService(t)
	ctx := context.Background()

	seedRestaurant(t, repo, domain.Restaurant{
		ID: "r1", Name: "Golden Wok", CuisineType: "Chinese", AverageRating: 4.5,
		GeoLocation: domain.GeoPoint{Lat: 51.5074, Lon: -0.1278},
	})
	seedRestaurant(t, repo, domain.Restaurant{
		ID: "r2", Name: "Pasta Palace", CuisineType: "Italian", AverageRating: 3.0,
		GeoLocation: domain.GeoPoint{Lat: 53.4808, Lon: -2.2426},
	})

	t.Run("text query", func(t *testing.T) {
		page, err := svc.Search(ctx, SearchParams{Query: "wok"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r1", page.Items[0].ID)
	})

	t.Run("min rating only", func(t *testing.T) {
		min := 4.0
		page, err := svc.Search(ctx, SearchParams{MinRating: &min})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r1", page.Items[0].ID)
	})

	t.Run("no filters matches all", func(t *testing.T) {
		page, err := svc.Search(ctx, SearchParams{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("geo takes precedence", func(t *testing.T) {
		lat, lon, radius := 51.5072, -0.1275, 10.0
		page, err := svc.Search(ctx, SearchParams{
			Query: "pasta", // ignored in geo mode
			Lat:   &lat, Lon: &lon, RadiusKm: &radius,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r1", page.Items[0].ID)
	})
}
