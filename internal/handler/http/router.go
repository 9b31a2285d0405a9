package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamdiboyraz/restaurant-review/internal/service"
	"github.com/hamdiboyraz/restaurant-review/pkg/health"
	"github.com/hamdiboyraz/restaurant-review/pkg/httputil"
	"github.com/hamdiboyraz/restaurant-review/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered. Reads
// are public; every mutation sits behind bearer-token auth.
func NewRouter(
	restaurantService *service.RestaurantService,
	reviewService *service.ReviewService,
	photoService *service.PhotoService,
	validateToken middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("restaurant"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	restaurantHandler := NewRestaurantHandler(restaurantService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	photoHandler := NewPhotoHandler(photoService, logger)

	authRequired := middleware.Auth(validateToken)

	r.Route("/api/v1/restaurants", func(r chi.Router) {
		r.Get("/", restaurantHandler.SearchRestaurants)
		r.With(authRequired, ContentTypeJSON).Post("/", restaurantHandler.CreateRestaurant)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", restaurantHandler.GetRestaurant)
			r.With(authRequired, ContentTypeJSON).Put("/", restaurantHandler.UpdateRestaurant)
			r.With(authRequired).Delete("/", restaurantHandler.DeleteRestaurant)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.ListReviews)
				r.With(authRequired, ContentTypeJSON).Post("/", reviewHandler.CreateReview)

				r.Get("/{reviewId}", reviewHandler.GetReview)
				r.With(authRequired, ContentTypeJSON).Put("/{reviewId}", reviewHandler.UpdateReview)
				r.With(authRequired).Delete("/{reviewId}", reviewHandler.DeleteReview)
			})
		})
	})

	r.Route("/api/v1/photos", func(r chi.Router) {
		r.With(authRequired).Post("/", photoHandler.UploadPhoto)
		r.Get("/{id}", photoHandler.GetPhoto)
	})

	return r
}

// ContentTypeJSON rejects mutating requests whose body is not declared as
// JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "application/json") {
			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: "Content-Type must be application/json",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
