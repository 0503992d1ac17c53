package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/pagination"
)

// defaultToursPerPage matches the page size of the public tour grid.
const defaultToursPerPage = 8

// TourHandler handles HTTP requests for tour endpoints.
type TourHandler struct {
	tours   *service.TourService
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewTourHandler creates a new tour HTTP handler.
func NewTourHandler(tours *service.TourService, reviews *service.ReviewService, logger *slog.Logger) *TourHandler {
	return &TourHandler{tours: tours, reviews: reviews, logger: logger}
}

// ListTours handles GET /api/v1/tours
func (h *TourHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r, defaultToursPerPage)

	tours, total, err := h.tours.ListTours(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WritePage(w, tours, total, p.Page, p.PerPage)
}

// GetTour handles GET /api/v1/tours/{id}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	tour, err := h.tours.GetTour(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", tour)
}

// CreateTour handles POST /api/v1/tours
func (h *TourHandler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTourInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	tour, err := h.tours.CreateTour(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Successfully created", tour)
}

// UpdateTour handles PUT /api/v1/tours/{id}
func (h *TourHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.UpdateTourInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	tour, err := h.tours.UpdateTour(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Successfully updated", tour)
}

// DeleteTour handles DELETE /api/v1/tours/{id}
func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.tours.DeleteTour(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Successfully deleted", nil)
}

// ListFeatured handles GET /api/v1/tours/featured
func (h *TourHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tours, err := h.tours.ListFeatured(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	httputil.WriteData(w, http.StatusOK, "", tours)
}

// SearchTours handles GET /api/v1/tours/search
//
// Query parameters: q, city, distance (minimum), maxGroupSize (minimum),
// page, limit.
func (h *TourHandler) SearchTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromRequest(r, defaultToursPerPage)

	filter := domain.TourFilter{
		Query:   strings.TrimSpace(q.Get("q")),
		City:    strings.TrimSpace(q.Get("city")),
		Page:    p.Page,
		PerPage: p.PerPage,
	}
	if v := q.Get("distance"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 {
			writeBadParam(w, "distance")
			return
		}
		filter.MinDistance = d
	}
	if v := q.Get("maxGroupSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadParam(w, "maxGroupSize")
			return
		}
		filter.MinGroupSize = n
	}

	tours, total, err := h.tours.SearchTours(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WritePage(w, tours, total, p.Page, p.PerPage)
}

// CountTours handles GET /api/v1/tours/count
func (h *TourHandler) CountTours(w http.ResponseWriter, r *http.Request) {
	n, err := h.tours.CountTours(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", n)
}

// ListReviews handles GET /api/v1/tours/{id}/reviews
func (h *TourHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListReviews(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	httputil.WriteData(w, http.StatusOK, "", reviews)
}

// GetRating handles GET /api/v1/tours/{id}/rating. The result is computed
// from the reviews, not read from the cached fields.
func (h *TourHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.reviews.RatingSummary(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", summary)
}

// RecomputeRating handles POST /api/v1/tours/{id}/rating/recompute
func (h *TourHandler) RecomputeRating(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.reviews.RecomputeRating(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Rating recomputed", summary)
}

func writeBadParam(w http.ResponseWriter, name string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Message: "invalid query parameter: " + name,
		Error:   &httputil.ErrorResponse{Code: "INVALID_PARAMETER"},
	})
}
