package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

func seed(t *testing.T, repo *Repository, restaurants ...domain.Restaurant) {
	t.Helper()
	for i := range restaurants {
		require.NoError(t, repo.Save(context.Background(), &restaurants[i]))
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo := New()
	seed(t, repo, domain.Restaurant{ID: "r1", Name: "Pasta Palace"})

	got, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta Palace", got.Name)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRepository_GetByID_ReturnsCopy(t *testing.T) {
	repo := New()
	seed(t, repo, domain.Restaurant{
		ID:      "r1",
		Name:    "Pasta Palace",
		Reviews: []domain.Review{{ID: "rev1", Rating: 5}},
	})

	got, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)

	// Mutating the returned aggregate must not affect the store until Save.
	got.Reviews[0].Rating = 1
	got.Name = "Changed"

	again, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta Palace", again.Name)
	assert.Equal(t, 5, again.Reviews[0].Rating)
}

func TestRepository_SaveReplaces(t *testing.T) {
	repo := New()
	seed(t, repo, domain.Restaurant{ID: "r1", Name: "Before"})

	require.NoError(t, repo.Save(context.Background(), &domain.Restaurant{ID: "r1", Name: "After"}))

	got, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
}

func TestRepository_Delete(t *testing.T) {
	repo := New()
	seed(t, repo, domain.Restaurant{ID: "r1"})

	require.NoError(t, repo.Delete(context.Background(), "r1"))
	_, err := repo.GetByID(context.Background(), "r1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Absent id is not an error.
	assert.NoError(t, repo.Delete(context.Background(), "r1"))
}

func TestRepository_SearchByText(t *testing.T) {
	repo := New()
	seed(t, repo,
		domain.Restaurant{ID: "r1", Name: "Golden Wok", CuisineType: "Chinese", AverageRating: 4.5},
		domain.Restaurant{ID: "r2", Name: "Pasta Palace", CuisineType: "Italian", AverageRating: 3.0},
		domain.Restaurant{ID: "r3", Name: "Wok This Way", CuisineType: "Thai", AverageRating: 2.0},
	)

	t.Run("matches name and cuisine", func(t *testing.T) {
		page, err := repo.SearchByText(context.Background(), repository.TextQuery{Query: "wok"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("cuisine match", func(t *testing.T) {
		page, err := repo.SearchByText(context.Background(), repository.TextQuery{Query: "italian"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r2", page.Items[0].ID)
	})

	t.Run("min rating filter", func(t *testing.T) {
		min := 3.0
		page, err := repo.SearchByText(context.Background(), repository.TextQuery{MinRating: &min})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("combined", func(t *testing.T) {
		min := 4.0
		page, err := repo.SearchByText(context.Background(), repository.TextQuery{Query: "wok", MinRating: &min})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r1", page.Items[0].ID)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		page, err := repo.SearchByText(context.Background(), repository.TextQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
	})
}

func TestRepository_SearchByGeo(t *testing.T) {
	repo := New()
	// Central London vs. Manchester.
	seed(t, repo,
		domain.Restaurant{ID: "near", Name: "Near", GeoLocation: domain.GeoPoint{Lat: 51.5074, Lon: -0.1278}},
		domain.Restaurant{ID: "far", Name: "Far", GeoLocation: domain.GeoPoint{Lat: 53.4808, Lon: -2.2426}},
	)

	page, err := repo.SearchByGeo(context.Background(), repository.GeoQuery{
		Lat: 51.5072, Lon: -0.1275, RadiusKm: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "near", page.Items[0].ID)

	page, err = repo.SearchByGeo(context.Background(), repository.GeoQuery{
		Lat: 51.5072, Lon: -0.1275, RadiusKm: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestRepository_SearchPagination(t *testing.T) {
	repo := New()
	seed(t, repo,
		domain.Restaurant{ID: "a", Name: "Alpha"},
		domain.Restaurant{ID: "b", Name: "Bravo"},
		domain.Restaurant{ID: "c", Name: "Charlie"},
	)

	page, err := repo.SearchByText(context.Background(), repository.TextQuery{Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Charlie", page.Items[0].Name)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
}
