package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/event"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
)

// RestaurantInput carries the caller-editable fields of a restaurant.
type RestaurantInput struct {
	Name               string
	CuisineType        string
	ContactInformation string
	Address            domain.Address
	OperatingHours     domain.OperatingHours
	GeoLocation        domain.GeoPoint
	PhotoIDs           []string
}

// SearchParams selects one of the search modes. When Lat, Lon, and RadiusKm
// are all set the search is geographic; otherwise the text query and rating
// filter apply, either of which may be empty.
type SearchParams struct {
	Query     string
	MinRating *float64
	Lat       *float64
	Lon       *float64
	RadiusKm  *float64
	Page      int // zero-based
	Size      int
}

// RestaurantService manages restaurant aggregates and dispatches searches.
type RestaurantService struct {
	repo      repository.RestaurantRepository
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRestaurantService creates a restaurant service.
func NewRestaurantService(repo repository.RestaurantRepository, publisher event.Publisher, logger *slog.Logger) *RestaurantService {
	return &RestaurantService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new restaurant with a generated id and no reviews.
func (s *RestaurantService) Create(ctx context.Context, in RestaurantInput) (*domain.Restaurant, error) {
	now := s.now().UTC()
	restaurant := &domain.Restaurant{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		CuisineType:        in.CuisineType,
		ContactInformation: in.ContactInformation,
		Address:            in.Address,
		OperatingHours:     in.OperatingHours,
		GeoLocation:        in.GeoLocation,
		Photos:             photosFromIDs(in.PhotoIDs, now),
		Reviews:            []domain.Review{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Save(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}

	if err := s.publisher.PublishRestaurantCreated(ctx, restaurant); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish restaurant.created event",
			slog.String("restaurant_id", restaurant.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "restaurant created",
		slog.String("restaurant_id", restaurant.ID),
		slog.String("name", restaurant.Name),
	)

	return restaurant, nil
}

// GetByID loads a restaurant aggregate.
func (s *RestaurantService) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}
	return restaurant, nil
}

// Update replaces the restaurant's descriptive fields. Reviews, the average
// rating, and the creation time are preserved.
func (s *RestaurantService) Update(ctx context.Context, id string, in RestaurantInput) (*domain.Restaurant, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	now := s.now().UTC()
	restaurant.Name = in.Name
	restaurant.CuisineType = in.CuisineType
	restaurant.ContactInformation = in.ContactInformation
	restaurant.Address = in.Address
	restaurant.OperatingHours = in.OperatingHours
	restaurant.GeoLocation = in.GeoLocation
	restaurant.Photos = photosFromIDs(in.PhotoIDs, now)
	restaurant.UpdatedAt = now

	if err := s.repo.Save(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}

	if err := s.publisher.PublishRestaurantUpdated(ctx, restaurant); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish restaurant.updated event",
			slog.String("restaurant_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "restaurant updated", slog.String("restaurant_id", id))

	return restaurant, nil
}

// Delete removes the restaurant and everything embedded in it.
func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}

	if err := s.publisher.PublishRestaurantDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish restaurant.deleted event",
			slog.String("restaurant_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "restaurant deleted", slog.String("restaurant_id", id))

	return nil
}

// Search dispatches to the geographic or textual search mode.
func (s *RestaurantService) Search(ctx context.Context, params SearchParams) (*domain.Page[domain.Restaurant], error) {
	if params.Lat != nil && params.Lon != nil && params.RadiusKm != nil {
		page, err := s.repo.SearchByGeo(ctx, repository.GeoQuery{
			Lat:      *params.Lat,
			Lon:      *params.Lon,
			RadiusKm: *params.RadiusKm,
			Page:     params.Page,
			Size:     params.Size,
		})
		if err != nil {
			return nil, fmt.Errorf("geo search: %w", err)
		}
		return page, nil
	}

	page, err := s.repo.SearchByText(ctx, repository.TextQuery{
		Query:     params.Query,
		MinRating: params.MinRating,
		Page:      params.Page,
		Size:      params.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return page, nil
}
