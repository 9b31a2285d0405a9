package memory

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// Repository is an in-memory implementation of
// repository.RestaurantRepository, used in tests and local development. Text
// matching is substring-based rather than fuzzy. Thread-safe via
// sync.RWMutex.
type Repository struct {
	mu          sync.RWMutex
	restaurants map[string]domain.Restaurant
}

var _ repository.RestaurantRepository = (*Repository)(nil)

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{
		restaurants: make(map[string]domain.Restaurant),
	}
}

// GetByID returns a deep copy of the stored restaurant so callers cannot
// mutate the store through aliased slices.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.restaurants[id]
	if !ok {
		return nil, apperrors.NotFound("restaurant", id)
	}
	return clone(&stored), nil
}

// Save stores a deep copy of the aggregate, creating or replacing it.
func (r *Repository) Save(_ context.Context, restaurant *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.restaurants[restaurant.ID] = *clone(restaurant)
	return nil
}

// Delete removes a restaurant. Deleting an absent id is a no-op.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.restaurants, id)
	return nil
}

// SearchByText matches the query text against name and cuisine type
// case-insensitively, then applies the minimum-rating filter. Results are
// ordered by name for determinism.
func (r *Repository) SearchByText(_ context.Context, q repository.TextQuery) (*domain.Page[domain.Restaurant], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	queryLower := strings.ToLower(q.Query)
	matched := make([]domain.Restaurant, 0)

	for _, rest := range r.restaurants {
		if queryLower != "" {
			nameLower := strings.ToLower(rest.Name)
			cuisineLower := strings.ToLower(rest.CuisineType)
			if !strings.Contains(nameLower, queryLower) && !strings.Contains(cuisineLower, queryLower) {
				continue
			}
		}
		if q.MinRating != nil && rest.AverageRating < *q.MinRating {
			continue
		}
		matched = append(matched, *clone(&rest))
	}

	sortByName(matched)
	page := domain.Paginate(matched, q.Page, normalizeSize(q.Size))
	return &page, nil
}

// SearchByGeo filters restaurants by great-circle distance from the point.
func (r *Repository) SearchByGeo(_ context.Context, q repository.GeoQuery) (*domain.Page[domain.Restaurant], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Restaurant, 0)
	for _, rest := range r.restaurants {
		if haversineKm(q.Lat, q.Lon, rest.GeoLocation.Lat, rest.GeoLocation.Lon) <= q.RadiusKm {
			matched = append(matched, *clone(&rest))
		}
	}

	sortByName(matched)
	page := domain.Paginate(matched, q.Page, normalizeSize(q.Size))
	return &page, nil
}

func normalizeSize(size int) int {
	if size < 1 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}

func sortByName(restaurants []domain.Restaurant) {
	sort.SliceStable(restaurants, func(i, j int) bool {
		return restaurants[i].Name < restaurants[j].Name
	})
}

// clone round-trips through JSON for a cheap deep copy. Acceptable for a
// test-oriented store.
func clone(r *domain.Restaurant) *domain.Restaurant {
	data, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	var out domain.Restaurant
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two WGS84 points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
