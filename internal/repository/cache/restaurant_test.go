package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	"github.com/hamdiboyraz/restaurant-review/internal/repository/memory"
)

func newTestCache(t *testing.T) (*Repository, *memory.Repository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(next, client, time.Minute, logger), next, mr
}

func TestRepository_GetByID_CachesResult(t *testing.T) {
	cached, next, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, next.Save(ctx, &domain.Restaurant{ID: "r1", Name: "Pasta Palace"}))

	got, err := cached.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta Palace", got.Name)
	assert.True(t, mr.Exists("restaurant:r1"))

	// Second read must be served from the cache: change the store underneath
	// and confirm the stale cached copy is returned.
	require.NoError(t, next.Save(ctx, &domain.Restaurant{ID: "r1", Name: "Renamed"}))

	got, err = cached.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta Palace", got.Name)
}

func TestRepository_SaveInvalidates(t *testing.T) {
	cached, _, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cached.Save(ctx, &domain.Restaurant{ID: "r1", Name: "Before"}))

	_, err := cached.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.True(t, mr.Exists("restaurant:r1"))

	require.NoError(t, cached.Save(ctx, &domain.Restaurant{ID: "r1", Name: "After"}))
	assert.False(t, mr.Exists("restaurant:r1"))

	got, err := cached.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
}

func TestRepository_DeleteInvalidates(t *testing.T) {
	cached, _, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cached.Save(ctx, &domain.Restaurant{ID: "r1"}))
	_, err := cached.GetByID(ctx, "r1")
	require.NoError(t, err)

	require.NoError(t, cached.Delete(ctx, "r1"))
	assert.False(t, mr.Exists("restaurant:r1"))

	_, err = cached.GetByID(ctx, "r1")
	assert.Error(t, err)
}

func TestRepository_CorruptEntryFallsThrough(t *testing.T) {
	cached, next, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, next.Save(ctx, &domain.Restaurant{ID: "r1", Name: "Pasta Palace"}))
	require.NoError(t, mr.Set("restaurant:r1", "{not json"))

	got, err := cached.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pasta Palace", got.Name)
}

func TestRepository_SearchPassesThrough(t *testing.T) {
	cached, next, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, next.Save(ctx, &domain.Restaurant{ID: "r1", Name: "Golden Wok", CuisineType: "Chinese"}))

	page, err := cached.SearchByText(ctx, repository.TextQuery{Query: "wok"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	geo, err := cached.SearchByGeo(ctx, repository.GeoQuery{RadiusKm: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, geo.Total)
}
