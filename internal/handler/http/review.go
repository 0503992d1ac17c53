package http

import (
	"log/slog"
	"net/http"

	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// CreateReviewRequest is the JSON request body for submitting a review.
// Range and length rules are enforced by the service. ProductID is optional;
// when present it must name the tour in the path.
type CreateReviewRequest struct {
	ProductID  string   `json:"productId"`
	Username   string   `json:"username" validate:"required"`
	ReviewText string   `json:"reviewText" validate:"required"`
	Rating     *float64 `json:"rating" validate:"required"`
}

// UpdateReviewRequest is the JSON request body for editing a review.
type UpdateReviewRequest struct {
	ReviewText *string  `json:"reviewText"`
	Rating     *float64 `json:"rating"`
}

// CreateReview handles POST /api/v1/review/{id} where id is the tour.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	tourID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if req.ProductID != "" && req.ProductID != tourID {
		httputil.WriteError(w, r, validator.FieldErrors(map[string]string{
			"productId": "productId does not match the tour in the path",
		}), h.logger)
		return
	}

	review, err := h.service.CreateReview(r.Context(), service.CreateReviewInput{
		TourID:     tourID,
		UserID:     actorFrom(r).UserID,
		Username:   req.Username,
		ReviewText: req.ReviewText,
		Rating:     *req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Review submitted", review)
}

// GetReview handles GET /api/v1/review/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", review)
}

// UpdateReview handles PUT /api/v1/review/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), actorFrom(r), id, service.UpdateReviewInput{
		ReviewText: req.ReviewText,
		Rating:     req.Rating,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Review updated", review)
}

// DeleteReview handles DELETE /api/v1/review/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), actorFrom(r), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "Review deleted", nil)
}
