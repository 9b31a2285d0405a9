package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
)

const keyPrefix = "restaurant:"

// Repository wraps a RestaurantRepository with a Redis read-through cache on
// GetByID. Writes and deletes invalidate the cached document; searches pass
// straight through since their result sets are query-shaped. Cache failures
// degrade to the underlying store and are logged, never returned.
type Repository struct {
	next   repository.RestaurantRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ repository.RestaurantRepository = (*Repository)(nil)

// New creates a caching decorator over next with the given TTL.
func New(next repository.RestaurantRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Repository {
	return &Repository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID returns the cached document when present, otherwise loads from the
// underlying store and caches the result.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	key := keyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var restaurant domain.Restaurant
		if err := json.Unmarshal(data, &restaurant); err == nil {
			return &restaurant, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		r.drop(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("restaurant cache read failed", "id", id, "error", err)
	}

	restaurant, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(restaurant); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn("restaurant cache write failed", "id", id, "error", err)
		}
	}

	return restaurant, nil
}

// Save writes through to the underlying store and invalidates the cached
// document. Invalidation rather than refresh keeps the cache consistent even
// when concurrent writers race.
func (r *Repository) Save(ctx context.Context, restaurant *domain.Restaurant) error {
	if err := r.next.Save(ctx, restaurant); err != nil {
		return err
	}
	r.drop(ctx, keyPrefix+restaurant.ID)
	return nil
}

// Delete removes the document from the store and the cache.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.drop(ctx, keyPrefix+id)
	return nil
}

// SearchByText passes through to the underlying store.
func (r *Repository) SearchByText(ctx context.Context, q repository.TextQuery) (*domain.Page[domain.Restaurant], error) {
	return r.next.SearchByText(ctx, q)
}

// SearchByGeo passes through to the underlying store.
func (r *Repository) SearchByGeo(ctx context.Context, q repository.GeoQuery) (*domain.Page[domain.Restaurant], error) {
	return r.next.SearchByGeo(ctx, q)
}

func (r *Repository) drop(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("restaurant cache invalidation failed", "key", key, "error", err)
	}
}

// Ping checks the Redis connection.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
