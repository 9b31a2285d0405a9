package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	pkgkafka "github.com/hamdiboyraz/restaurant-review/pkg/kafka"
)

// Kafka topic constants for restaurant and review domain events.
const (
	TopicRestaurantCreated = "restaurants.restaurant.created"
	TopicRestaurantUpdated = "restaurants.restaurant.updated"
	TopicRestaurantDeleted = "restaurants.restaurant.deleted"
	TopicReviewCreated     = "restaurants.review.created"
	TopicReviewUpdated     = "restaurants.review.updated"
	TopicReviewDeleted     = "restaurants.review.deleted"
)

// Aggregate type constant.
const AggregateTypeRestaurant = "restaurant"

// Source identifier for events originating from this service.
const SourceRestaurantService = "restaurant-service"

// RestaurantEventData is the payload for restaurant lifecycle events.
type RestaurantEventData struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CuisineType   string  `json:"cuisine_type"`
	AverageRating float64 `json:"average_rating"`
}

// ReviewEventData is the payload for review lifecycle events. AverageRating
// is the restaurant's rating after the change.
type ReviewEventData struct {
	RestaurantID  string    `json:"restaurant_id"`
	ReviewID      string    `json:"review_id"`
	AuthorID      string    `json:"author_id"`
	Rating        int       `json:"rating,omitempty"`
	DatePosted    time.Time `json:"date_posted,omitempty"`
	AverageRating float64   `json:"average_rating"`
}

// Publisher is what services use to emit domain events. The concrete
// Producer publishes to Kafka; tests use NopPublisher.
type Publisher interface {
	PublishRestaurantCreated(ctx context.Context, restaurant *domain.Restaurant) error
	PublishRestaurantUpdated(ctx context.Context, restaurant *domain.Restaurant) error
	PublishRestaurantDeleted(ctx context.Context, restaurantID string) error
	PublishReviewCreated(ctx context.Context, restaurant *domain.Restaurant, review *domain.Review) error
	PublishReviewUpdated(ctx context.Context, restaurant *domain.Restaurant, review *domain.Review) error
	PublishReviewDeleted(ctx context.Context, restaurant *domain.Restaurant, reviewID string) error
}

// Producer publishes restaurant domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

var _ Publisher = (*Producer)(nil)

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func (p *Producer) publishRestaurant(ctx context.Context, topic string, restaurant *domain.Restaurant) error {
	data := RestaurantEventData{
		ID:            restaurant.ID,
		Name:          restaurant.Name,
		CuisineType:   restaurant.CuisineType,
		AverageRating: restaurant.AverageRating,
	}

	event, err := pkgkafka.NewEvent(topic, restaurant.ID, AggregateTypeRestaurant, SourceRestaurantService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published restaurant event",
		slog.String("topic", topic),
		slog.String("restaurant_id", restaurant.ID),
	)

	return nil
}

// PublishRestaurantCreated publishes a restaurant.created event.
func (p *Producer) PublishRestaurantCreated(ctx context.Context, restaurant *domain.Restaurant) error {
	return p.publishRestaurant(ctx, TopicRestaurantCreated, restaurant)
}

// PublishRestaurantUpdated publishes a restaurant.updated event.
func (p *Producer) PublishRestaurantUpdated(ctx context.Context, restaurant *domain.Restaurant) error {
	return p.publishRestaurant(ctx, TopicRestaurantUpdated, restaurant)
}

// PublishRestaurantDeleted publishes a restaurant.deleted event.
func (p *Producer) PublishRestaurantDeleted(ctx context.Context, restaurantID string) error {
	data := RestaurantEventData{ID: restaurantID}

	event, err := pkgkafka.NewEvent(TopicRestaurantDeleted, restaurantID, AggregateTypeRestaurant, SourceRestaurantService, data)
	if err != nil {
		return fmt.Errorf("create restaurant.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicRestaurantDeleted, event); err != nil {
		return fmt.Errorf("publish restaurant.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published restaurant event",
		slog.String("topic", TopicRestaurantDeleted),
		slog.String("restaurant_id", restaurantID),
	)

	return nil
}

func (p *Producer) publishReview(ctx context.Context, topic string, restaurant *domain.Restaurant, data ReviewEventData) error {
	event, err := pkgkafka.NewEvent(topic, restaurant.ID, AggregateTypeRestaurant, SourceRestaurantService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("restaurant_id", restaurant.ID),
		slog.String("review_id", data.ReviewID),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, restaurant *domain.Restaurant, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewCreated, restaurant, ReviewEventData{
		RestaurantID:  restaurant.ID,
		ReviewID:      review.ID,
		AuthorID:      review.WrittenBy.ID,
		Rating:        review.Rating,
		DatePosted:    review.DatePosted,
		AverageRating: restaurant.AverageRating,
	})
}

// PublishReviewUpdated publishes a review.updated event.
func (p *Producer) PublishReviewUpdated(ctx context.Context, restaurant *domain.Restaurant, review *domain.Review) error {
	return p.publishReview(ctx, TopicReviewUpdated, restaurant, ReviewEventData{
		RestaurantID:  restaurant.ID,
		ReviewID:      review.ID,
		AuthorID:      review.WrittenBy.ID,
		Rating:        review.Rating,
		DatePosted:    review.DatePosted,
		AverageRating: restaurant.AverageRating,
	})
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, restaurant *domain.Restaurant, reviewID string) error {
	return p.publishReview(ctx, TopicReviewDeleted, restaurant, ReviewEventData{
		RestaurantID:  restaurant.ID,
		ReviewID:      reviewID,
		AverageRating: restaurant.AverageRating,
	})
}

// NopPublisher discards all events. Used in tests and when Kafka is disabled.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) PublishRestaurantCreated(context.Context, *domain.Restaurant) error { return nil }
func (NopPublisher) PublishRestaurantUpdated(context.Context, *domain.Restaurant) error { return nil }
func (NopPublisher) PublishRestaurantDeleted(context.Context, string) error             { return nil }
func (NopPublisher) PublishReviewCreated(context.Context, *domain.Restaurant, *domain.Review) error {
	return nil
}
func (NopPublisher) PublishReviewUpdated(context.Context, *domain.Restaurant, *domain.Review) error {
	return nil
}
func (NopPublisher) PublishReviewDeleted(context.Context, *domain.Restaurant, string) error {
	return nil
}
