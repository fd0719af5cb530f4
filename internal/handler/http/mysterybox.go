package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/internal/service"
	"github.com/Dffarhn/recyle-food-mobile/pkg/httputil"
	"github.com/Dffarhn/recyle-food-mobile/pkg/pagination"
	"github.com/Dffarhn/recyle-food-mobile/pkg/validator"
)

// MysteryBoxHandler handles HTTP requests for mystery box endpoints.
type MysteryBoxHandler struct {
	service *service.MysteryBoxService
	logger  *slog.Logger
}

// NewMysteryBoxHandler creates a new mystery box HTTP handler.
func NewMysteryBoxHandler(svc *service.MysteryBoxService, logger *slog.Logger) *MysteryBoxHandler {
	return &MysteryBoxHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// DetailRequest holds the parameters of a detail read. The location is
// optional but lat and lng must be sent together.
type DetailRequest struct {
	ID  string   `query:"id" validate:"required,uuid"`
	Lat *float64 `query:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng *float64 `query:"lng" validate:"required_with=Lat,omitempty,longitude"`
}

func (r DetailRequest) location() *domain.Coordinates {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &domain.Coordinates{Latitude: *r.Lat, Longitude: *r.Lng}
}

// NearbyRequest holds the parameters of a nearby listing.
type NearbyRequest struct {
	Lat *float64 `query:"lat" validate:"required,latitude"`
	Lng *float64 `query:"lng" validate:"required,longitude"`
}

// --- Handlers ---

// GetDetail handles GET /api/v1/mystery-boxes/{id}?lat=&lng=
func (h *MysteryBoxHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	req := DetailRequest{ID: chi.URLParam(r, "id"), Lat: lat, Lng: lng}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	box, err := h.service.GetDetail(r.Context(), req.ID, req.location())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: box})
}

// ListNearby handles GET /api/v1/mystery-boxes?lat=&lng=&page=&per_page=
func (h *MysteryBoxHandler) ListNearby(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	req := NearbyRequest{Lat: lat, Lng: lng}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	loc := domain.Coordinates{Latitude: *req.Lat, Longitude: *req.Lng}
	result, err := h.service.ListNearby(r.Context(), loc, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// coordinates parses the optional lat/lng query parameters and writes a 400
// when either is malformed.
func (h *MysteryBoxHandler) coordinates(w http.ResponseWriter, r *http.Request) (lat, lng *float64, ok bool) {
	lat, err := httputil.QueryFloat(r, "lat")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, nil, false
	}
	lng, err = httputil.QueryFloat(r, "lng")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, nil, false
	}
	return lat, lng, true
}
