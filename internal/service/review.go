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
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
)

// ReviewInput carries the caller-editable fields of a review. Photo IDs
// reference previously uploaded photos and replace the review's photo set
// wholesale on update.
type ReviewInput struct {
	Content  string
	Rating   int
	PhotoIDs []string
}

// ReviewListParams selects the ordering and page of a review listing.
type ReviewListParams struct {
	Sort      domain.SortField
	Direction domain.Direction
	Page      int // zero-based
	Size      int
}

// ReviewService manages the review lifecycle inside restaurant aggregates.
// Every mutation loads the aggregate, changes it in memory, recomputes the
// average rating, and persists with a single Save.
type ReviewService struct {
	repo      repository.RestaurantRepository
	publisher event.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewService creates a review service.
func NewReviewService(repo repository.RestaurantRepository, publisher event.Publisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service's time source. Test use only.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// CreateReview adds a review to the restaurant on behalf of the author. Each
// user may hold at most one live review per restaurant; a deleted review
// frees the slot.
func (s *ReviewService) CreateReview(ctx context.Context, restaurantID string, author domain.User, in ReviewInput) (*domain.Review, error) {
	restaurant, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	if restaurant.HasReviewBy(author.ID) {
		return nil, apperrors.ReviewNotAllowed("user has already reviewed this restaurant")
	}

	now := s.now().UTC()
	review := domain.Review{
		ID:         uuid.New().String(),
		Content:    in.Content,
		Rating:     in.Rating,
		Photos:     photosFromIDs(in.PhotoIDs, now),
		DatePosted: now,
		LastEdited: now,
		WrittenBy:  author,
	}

	restaurant.Reviews = append(restaurant.Reviews, review)
	restaurant.RecomputeAverageRating()
	restaurant.UpdatedAt = now

	if err := s.repo.Save(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}

	if err := s.publisher.PublishReviewCreated(ctx, restaurant, &review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("restaurant_id", restaurantID),
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("restaurant_id", restaurantID),
		slog.String("review_id", review.ID),
		slog.String("author_id", author.ID),
	)

	return &review, nil
}

// UpdateReview replaces the content, rating, and photos of the author's
// review. Only the original author may edit, and only within the edit window
// measured from the original posting time; the window never resets on edit.
func (s *ReviewService) UpdateReview(ctx context.Context, restaurantID, reviewID string, author domain.User, in ReviewInput) (*domain.Review, error) {
	restaurant, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	review := restaurant.FindReview(reviewID)
	if review == nil || review.WrittenBy.ID != author.ID {
		return nil, apperrors.ReviewNotAllowed("review does not exist or is not owned by the user")
	}

	now := s.now().UTC()
	if !review.Editable(now) {
		return nil, apperrors.ReviewNotAllowed("review can no longer be edited")
	}

	review.Content = in.Content
	review.Rating = in.Rating
	review.Photos = photosFromIDs(in.PhotoIDs, now)
	review.LastEdited = now

	restaurant.RecomputeAverageRating()
	restaurant.UpdatedAt = now

	if err := s.repo.Save(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}

	if err := s.publisher.PublishReviewUpdated(ctx, restaurant, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.updated event",
			slog.String("restaurant_id", restaurantID),
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review updated",
		slog.String("restaurant_id", restaurantID),
		slog.String("review_id", reviewID),
	)

	return review, nil
}

// DeleteReview removes the author's review. Deletion requires the same
// ownership as editing but is allowed at any time, regardless of the edit
// window.
func (s *ReviewService) DeleteReview(ctx context.Context, restaurantID, reviewID string, author domain.User) error {
	restaurant, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("load restaurant: %w", err)
	}

	review := restaurant.FindReview(reviewID)
	if review == nil || review.WrittenBy.ID != author.ID {
		return apperrors.ReviewNotAllowed("review does not exist or is not owned by the user")
	}

	restaurant.RemoveReview(reviewID)
	restaurant.RecomputeAverageRating()
	restaurant.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, restaurant); err != nil {
		return fmt.Errorf("save restaurant: %w", err)
	}

	if err := s.publisher.PublishReviewDeleted(ctx, restaurant, reviewID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("restaurant_id", restaurantID),
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("restaurant_id", restaurantID),
		slog.String("review_id", reviewID),
	)

	return nil
}

// GetReview returns a single review from the restaurant. An absent review is
// not an error: the result is nil and the HTTP layer answers 204 No Content.
func (s *ReviewService) GetReview(ctx context.Context, restaurantID, reviewID string) (*domain.Review, error) {
	restaurant, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	return restaurant.FindReview(reviewID), nil
}

// ListReviews returns one page of the restaurant's reviews, ranked by the
// requested field and direction.
func (s *ReviewService) ListReviews(ctx context.Context, restaurantID string, params ReviewListParams) (*domain.Page[domain.Review], error) {
	restaurant, err := s.repo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	ranked := domain.RankReviews(restaurant.Reviews, params.Sort, params.Direction)

	size := params.Size
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	page := domain.Paginate(ranked, params.Page, size)
	return &page, nil
}

func photosFromIDs(photoIDs []string, uploadDate time.Time) []domain.Photo {
	photos := make([]domain.Photo, 0, len(photoIDs))
	for _, id := range photoIDs {
		photos = append(photos, domain.Photo{
			URL:        id,
			UploadDate: uploadDate,
		})
	}
	return photos
}
