package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/repository"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// BookingService implements tour reservations.
type BookingService struct {
	bookings repository.BookingRepository
	logger   *slog.Logger
}

// NewBookingService creates a booking service.
func NewBookingService(bookings repository.BookingRepository, logger *slog.Logger) *BookingService {
	return &BookingService{bookings: bookings, logger: logger}
}

// CreateBookingInput holds the parameters for booking a tour. The booking
// owner is always the actor, never a field of the request.
type CreateBookingInput struct {
	UserEmail string     `json:"userEmail" validate:"required,email"`
	TourName  string     `json:"tourName" validate:"required,trimmedmin=1"`
	FullName  string     `json:"fullName" validate:"required,trimmedmin=1"`
	GuestSize int        `json:"guestSize" validate:"min=1,max=100"`
	Phone     string     `json:"phone" validate:"required,phone"`
	BookAt    *time.Time `json:"bookAt"`
}

// CreateBooking stores a booking for the actor. BookAt defaults to now.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, in CreateBookingInput) (*domain.Booking, error) {
	if actor.UserID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	in.UserEmail = strings.ToLower(strings.TrimSpace(in.UserEmail))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bookAt := now
	if in.BookAt != nil {
		bookAt = in.BookAt.UTC()
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		UserEmail: in.UserEmail,
		TourName:  strings.TrimSpace(in.TourName),
		FullName:  strings.TrimSpace(in.FullName),
		GuestSize: in.GuestSize,
		Phone:     in.Phone,
		BookAt:    bookAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "booking created",
		slog.String("booking_id", booking.ID),
		slog.String("tour_name", booking.TourName),
		slog.Int("guest_size", booking.GuestSize),
	)
	return booking, nil
}

// GetBooking returns a booking owned by the actor, or any booking for admins.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(booking.UserID) && !actor.IsAdmin() {
		// Hide other users' bookings entirely.
		return nil, apperrors.NotFound("booking", id)
	}
	return booking, nil
}

// ListBookings returns a page of all bookings.
func (s *BookingService) ListBookings(ctx context.Context, page, perPage int) ([]domain.Booking, int, error) {
	return s.bookings.List(ctx, page, perPage)
}

// ListMyBookings returns a page of the actor's bookings.
func (s *BookingService) ListMyBookings(ctx context.Context, actor Actor, page, perPage int) ([]domain.Booking, int, error) {
	return s.bookings.ListByUser(ctx, actor.UserID, page, perPage)
}

// ListBookingsByEmail returns a page of bookings made with an email address.
func (s *BookingService) ListBookingsByEmail(ctx context.Context, email string, page, perPage int) ([]domain.Booking, int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, 0, apperrors.InvalidInput("email is required")
	}
	return s.bookings.ListByEmail(ctx, email, page, perPage)
}
