package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/internal/service"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
	"github.com/hamdiboyraz/restaurant-review/pkg/httputil"
	"github.com/hamdiboyraz/restaurant-review/pkg/pagination"
	"github.com/hamdiboyraz/restaurant-review/pkg/validator"
)

// RestaurantHandler handles HTTP requests for restaurant endpoints.
type RestaurantHandler struct {
	service *service.RestaurantService
	logger  *slog.Logger
}

// NewRestaurantHandler creates a new restaurant HTTP handler.
func NewRestaurantHandler(svc *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddressRequest is the JSON shape of a restaurant address.
type AddressRequest struct {
	StreetNumber string `json:"street_number" validate:"required,max=20"`
	StreetName   string `json:"street_name" validate:"required,max=255"`
	Unit         string `json:"unit" validate:"max=50"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"max=100"`
	PostalCode   string `json:"postal_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"required,max=100"`
}

// TimeRangeRequest is an open/close pair in HH:MM form.
type TimeRangeRequest struct {
	OpenTime  string `json:"open_time" validate:"required,len=5"`
	CloseTime string `json:"close_time" validate:"required,len=5"`
}

// OperatingHoursRequest is the weekly schedule; omitted days mean closed.
type OperatingHoursRequest struct {
	Monday    *TimeRangeRequest `json:"monday"`
	Tuesday   *TimeRangeRequest `json:"tuesday"`
	Wednesday *TimeRangeRequest `json:"wednesday"`
	Thursday  *TimeRangeRequest `json:"thursday"`
	Friday    *TimeRangeRequest `json:"friday"`
	Saturday  *TimeRangeRequest `json:"saturday"`
	Sunday    *TimeRangeRequest `json:"sunday"`
}

// GeoPointRequest is a WGS84 coordinate pair.
type GeoPointRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

// CreateUpdateRestaurantRequest is the JSON request body for creating or
// replacing a restaurant.
type CreateUpdateRestaurantRequest struct {
	Name               string                `json:"name" validate:"required,min=1,max=255"`
	CuisineType        string                `json:"cuisine_type" validate:"required,max=100"`
	ContactInformation string                `json:"contact_information" validate:"max=255"`
	Address            AddressRequest        `json:"address" validate:"required"`
	OperatingHours     OperatingHoursRequest `json:"operating_hours"`
	GeoLocation        GeoPointRequest       `json:"geo_location" validate:"required"`
	PhotoIDs           []string              `json:"photo_ids"`
}

func (req *CreateUpdateRestaurantRequest) toInput() service.RestaurantInput {
	return service.RestaurantInput{
		Name:               req.Name,
		CuisineType:        req.CuisineType,
		ContactInformation: req.ContactInformation,
		Address: domain.Address{
			StreetNumber: req.Address.StreetNumber,
			StreetName:   req.Address.StreetName,
			Unit:         req.Address.Unit,
			City:         req.Address.City,
			State:        req.Address.State,
			PostalCode:   req.Address.PostalCode,
			Country:      req.Address.Country,
		},
		OperatingHours: domain.OperatingHours{
			Monday:    timeRange(req.OperatingHours.Monday),
			Tuesday:   timeRange(req.OperatingHours.Tuesday),
			Wednesday: timeRange(req.OperatingHours.Wednesday),
			Thursday:  timeRange(req.OperatingHours.Thursday),
			Friday:    timeRange(req.OperatingHours.Friday),
			Saturday:  timeRange(req.OperatingHours.Saturday),
			Sunday:    timeRange(req.OperatingHours.Sunday),
		},
		GeoLocation: domain.GeoPoint{Lat: req.GeoLocation.Lat, Lon: req.GeoLocation.Lon},
		PhotoIDs:    req.PhotoIDs,
	}
}

func timeRange(req *TimeRangeRequest) *domain.TimeRange {
	if req == nil {
		return nil
	}
	return &domain.TimeRange{OpenTime: req.OpenTime, CloseTime: req.CloseTime}
}

// --- Handlers ---

// CreateRestaurant handles POST /api/v1/restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateUpdateRestaurantRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	restaurant, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: restaurant})
}

// SearchRestaurants handles GET /api/v1/restaurants
//
// Supported query parameters: q, min_rating, latitude, longitude, radius
// (km), plus page and per_page. Supplying latitude, longitude, and radius
// together switches to geographic search.
func (h *RestaurantHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageParams := pagination.FromRequest(r)

	params := service.SearchParams{
		Query: q.Get("q"),
		Page:  pageParams.Page - 1,
		Size:  pageParams.PerPage,
	}

	if v := q.Get("min_rating"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil || min < 0 || min > 5 {
			httputil.WriteError(w, r, apperrors.InvalidInput("min_rating must be a number between 0 and 5"), h.logger)
			return
		}
		params.MinRating = &min
	}

	lat, latErr := parseFloatParam(q.Get("latitude"))
	lon, lonErr := parseFloatParam(q.Get("longitude"))
	radius, radErr := parseFloatParam(q.Get("radius"))

	switch {
	case latErr != nil || lonErr != nil || radErr != nil:
		httputil.WriteError(w, r, apperrors.InvalidInput("latitude, longitude, and radius must be valid numbers"), h.logger)
		return
	case lat != nil && lon != nil && radius != nil:
		if *radius <= 0 {
			httputil.WriteError(w, r, apperrors.InvalidInput("radius must be greater than zero"), h.logger)
			return
		}
		params.Lat, params.Lon, params.RadiusKm = lat, lon, radius
	case lat != nil || lon != nil || radius != nil:
		httputil.WriteError(w, r, apperrors.InvalidInput("geo search requires latitude, longitude, and radius together"), h.logger)
		return
	}

	page, err := h.service.Search(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(page.Items, page.Total, pageParams))
}

// parseFloatParam parses an optional float query parameter. A missing value
// yields (nil, nil); a malformed one yields (nil, err).
func parseFloatParam(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetRestaurant handles GET /api/v1/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	restaurant, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurant})
}

// UpdateRestaurant handles PUT /api/v1/restaurants/{id}
func (h *RestaurantHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")

	var req CreateUpdateRestaurantRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	restaurant, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: restaurant})
}

// DeleteRestaurant handles DELETE /api/v1/restaurants/{id}
func (h *RestaurantHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
