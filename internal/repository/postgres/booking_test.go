package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

var bookingCols = []string{
	"id", "user_id", "user_email", "tour_name", "full_name", "guest_size", "phone", "book_at", "created_at", "updated_at",
}

func sampleBooking() domain.Booking {
	return domain.Booking{
		ID:        "b-1",
		UserID:    "u-1",
		UserEmail: "a@b.com",
		TourName:  "Westminster Bridge",
		FullName:  "Alice Smith",
		GuestSize: 3,
		Phone:     "01234567890",
		BookAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func bookingValues(b domain.Booking) []any {
	return []any{b.ID, b.UserID, b.UserEmail, b.TourName, b.FullName, b.GuestSize, b.Phone, b.BookAt, b.CreatedAt, b.UpdatedAt}
}

func TestBookingRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	b := sampleBooking()

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(bookingValues(b)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), &b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock)
	want := sampleBooking()

	mock.ExpectQuery("FROM bookings WHERE id = ").
		WithArgs(want.ID).
		WillReturnRows(pgxmock.NewRows(bookingCols).AddRow(bookingValues(want)...))

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	mock.ExpectQuery("FROM bookings WHERE id = ").WithArgs("b-9").WillReturnError(pgx.ErrNoRows)
	_, err = repo.GetByID(context.Background(), "b-9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingRepository_Lists(t *testing.T) {
	b := sampleBooking()
	cols := append(append([]string{}, bookingCols...), "total_count")

	t.Run("all", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock)
		mock.ExpectQuery(`FROM bookings ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(20, 0).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(append(bookingValues(b), 1)...))

		got, total, err := repo.List(context.Background(), 1, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, got, 1)
	})

	t.Run("by user", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock)
		mock.ExpectQuery(`WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("u-1", 5, 5).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(append(bookingValues(b), 6)...))

		got, total, err := repo.ListByUser(context.Background(), "u-1", 2, 5)
		require.NoError(t, err)
		assert.Equal(t, 6, total)
		assert.Equal(t, "u-1", got[0].UserID)
	})

	t.Run("by email", func(t *testing.T) {
		mock := newMock(t)
		repo := NewBookingRepository(mock)
		mock.ExpectQuery(`WHERE user_email = \$1`).
			WithArgs("a@b.com", 20, 0).
			WillReturnRows(pgxmock.NewRows(cols))

		got, total, err := repo.ListByEmail(context.Background(), "a@b.com", 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, got)
	})
}
