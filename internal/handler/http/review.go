package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hamdiboyraz/restaurant-review/internal/auth"
	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/service"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
	"github.com/hamdiboyraz/restaurant-review/pkg/httputil"
	"github.com/hamdiboyraz/restaurant-review/pkg/middleware"
	"github.com/hamdiboyraz/restaurant-review/pkg/pagination"
	"github.com/hamdiboyraz/restaurant-review/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateUpdateReviewRequest is the JSON request body for creating or editing
// a review. Photo IDs replace the review's photo set wholesale.
type CreateUpdateReviewRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=4000"`
	Rating   int      `json:"rating" validate:"required,gte=1,lte=5"`
	PhotoIDs []string `json:"photo_ids" validate:"max=10"`
}

func (req *CreateUpdateReviewRequest) toInput() service.ReviewInput {
	return service.ReviewInput{
		Content:  req.Content,
		Rating:   req.Rating,
		PhotoIDs: req.PhotoIDs,
	}
}

// author resolves the authenticated user from the request context. Routes
// using it sit behind the auth middleware, so a missing identity is a
// programming error surfaced as 401.
func author(r *http.Request) (domain.User, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return domain.User{}, apperrors.Unauthorized("authentication required")
	}
	return auth.UserFromClaims(claims), nil
}

// CreateReview handles POST /api/v1/restaurants/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	restaurantID := chi.URLParam(r, "id")

	user, err := author(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateUpdateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.CreateReview(r.Context(), restaurantID, user, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListReviews handles GET /api/v1/restaurants/{id}/reviews
//
// Supported query parameters: sort (datePosted or rating), direction (asc or
// desc), page, per_page. Unrecognized sort keys and directions fall back to
// newest-first.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	pageParams := pagination.FromRequest(r)

	page, err := h.service.ListReviews(r.Context(), restaurantID, service.ReviewListParams{
		Sort:      domain.ParseSortField(pageParams.Sort),
		Direction: domain.ParseDirection(pageParams.Direction),
		Page:      pageParams.Page - 1,
		Size:      pageParams.PerPage,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(page.Items, page.Total, pageParams))
}

// GetReview handles GET /api/v1/restaurants/{id}/reviews/{reviewId}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "reviewId")

	review, err := h.service.GetReview(r.Context(), restaurantID, reviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if review == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// UpdateReview handles PUT /api/v1/restaurants/{id}/reviews/{reviewId}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	restaurantID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "reviewId")

	user, err := author(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req CreateUpdateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), restaurantID, reviewID, user, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/restaurants/{id}/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	reviewID := chi.URLParam(r, "reviewId")

	user, err := author(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteReview(r.Context(), restaurantID, reviewID, user); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
