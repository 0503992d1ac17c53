package repository

import (
	"context"

	"github.com/parasjain182005/Travel-Website/internal/domain"
)

// TourRepository defines persistence for tours and their cached rating.
type TourRepository interface {
	// Create inserts a tour. A duplicate title or slug is a conflict.
	Create(ctx context.Context, tour *domain.Tour) error

	// GetByID returns the tour without its reviews.
	GetByID(ctx context.Context, id string) (*domain.Tour, error)

	// Exists reports whether a tour with id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Update writes the editable fields. The cached rating is not touched.
	Update(ctx context.Context, tour *domain.Tour) error

	// Delete removes the tour; its reviews cascade.
	Delete(ctx context.Context, id string) error

	// List returns one page of tours, newest first, and the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Tour, int, error)

	// ListByIDs returns the tours with the given ids in no particular
	// order. Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]domain.Tour, error)

	// ListFeatured returns up to limit featured tours.
	ListFeatured(ctx context.Context, limit int) ([]domain.Tour, error)

	// Search applies filter and returns one page and the total match count.
	Search(ctx context.Context, filter domain.TourFilter) ([]domain.Tour, int, error)

	// Count returns the number of tours.
	Count(ctx context.Context) (int, error)

	// RefreshRating recomputes the cached average and count from the
	// tour's reviews in a single statement and returns what was stored.
	RefreshRating(ctx context.Context, id string) (domain.RatingSummary, error)
}

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error

	// ListByTour returns a tour's reviews, newest first.
	ListByTour(ctx context.Context, tourID string) ([]domain.Review, error)

	// Summary returns the mean rating and count for a tour's reviews,
	// {0, 0} when it has none.
	Summary(ctx context.Context, tourID string) (domain.RatingSummary, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts a user. A duplicate email or username is a conflict.
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes username, photo, role and status.
	Update(ctx context.Context, user *domain.User) error

	// SetStatus changes the account status without deleting the row.
	SetStatus(ctx context.Context, id, status string) error

	// List returns one page of users, optionally filtered by status.
	List(ctx context.Context, status string, page, perPage int) ([]domain.User, int, error)
}

// BookingRepository defines persistence for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, page, perPage int) ([]domain.Booking, int, error)
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Booking, int, error)
	ListByEmail(ctx context.Context, email string, page, perPage int) ([]domain.Booking, int, error)
}
