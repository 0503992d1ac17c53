package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

const bookingColumns = `id, user_id, user_email, tour_name, full_name, guest_size, phone, book_at, created_at, updated_at`

// BookingRepository implements repository.BookingRepository using PostgreSQL.
type BookingRepository struct {
	db database.DBTX
}

// NewBookingRepository creates a PostgreSQL-backed booking repository.
func NewBookingRepository(db database.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (err error) {
	query := `
		INSERT INTO bookings (id, user_id, user_email, tour_name, full_name, guest_size, phone, book_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	ctx, end := database.TraceQuery(ctx, "bookings.create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		b.ID, b.UserID, b.UserEmail, b.TourName, b.FullName, b.GuestSize, b.Phone, b.BookAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return apperrors.NotFound("user", b.UserID)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (_ *domain.Booking, err error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "bookings.get", query)
	defer func() { end(err) }()

	var b domain.Booking
	err = r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.UserEmail, &b.TourName, &b.FullName, &b.GuestSize, &b.Phone, &b.BookAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("booking", id)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// List returns a page of all bookings.
func (r *BookingRepository) List(ctx context.Context, page, perPage int) ([]domain.Booking, int, error) {
	return r.list(ctx, "bookings.list", "", nil, page, perPage)
}

// ListByUser returns a page of one user's bookings.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Booking, int, error) {
	return r.list(ctx, "bookings.list_by_user", "WHERE user_id = $1", userID, page, perPage)
}

// ListByEmail returns a page of bookings made with email.
func (r *BookingRepository) ListByEmail(ctx context.Context, email string, page, perPage int) ([]domain.Booking, int, error) {
	return r.list(ctx, "bookings.list_by_email", "WHERE user_email = $1", email, page, perPage)
}

func (r *BookingRepository) list(ctx context.Context, op, where string, arg any, page, perPage int) (_ []domain.Booking, _ int, err error) {
	limit, offset := limitOffset(page, perPage)
	args := []any{limit, offset}
	limitIdx := 1
	if where != "" {
		args = []any{arg, limit, offset}
		limitIdx = 2
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM bookings
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, bookingColumns, where, limitIdx, limitIdx+1)

	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	var total int
	for rows.Next() {
		var b domain.Booking
		if err = rows.Scan(
			&b.ID, &b.UserID, &b.UserEmail, &b.TourName, &b.FullName, &b.GuestSize, &b.Phone, &b.BookAt, &b.CreatedAt, &b.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, total, nil
}
