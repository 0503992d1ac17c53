package http

import (
	"log/slog"
	"net/http"

	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/httputil"
	"github.com/parasjain182005/Travel-Website/pkg/pagination"
)

// BookingHandler handles HTTP requests for booking endpoints.
type BookingHandler struct {
	service *service.BookingService
	logger  *slog.Logger
}

// NewBookingHandler creates a new booking HTTP handler.
func NewBookingHandler(svc *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: svc, logger: logger}
}

// CreateBooking handles POST /api/v1/book
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingInput
	if err := decode(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actorFrom(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, "Your tour is booked", booking)
}

// GetBooking handles GET /api/v1/book/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), actorFrom(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, "", booking)
}

// ListBookings handles GET /api/v1/book
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r, 20)

	bookings, total, err := h.service.ListBookings(r.Context(), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WritePage(w, bookings, total, p.Page, p.PerPage)
}

// ListMyBookings handles GET /api/v1/book/mine
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r, 20)

	bookings, total, err := h.service.ListMyBookings(r.Context(), actorFrom(r), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WritePage(w, bookings, total, p.Page, p.PerPage)
}

// ListBookingsByEmail handles GET /api/v1/book/by-email?email=
func (h *BookingHandler) ListBookingsByEmail(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r, 20)

	bookings, total, err := h.service.ListBookingsByEmail(r.Context(), r.URL.Query().Get("email"), p.Page, p.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WritePage(w, bookings, total, p.Page, p.PerPage)
}
