package postgres

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var tourCols = []string{
	"id", "title", "slug", "city", "address", "distance", "photo", "description", "price",
	"max_group_size", "featured", "average_rating", "review_count", "created_at", "updated_at",
}

func sampleTour() domain.Tour {
	return domain.Tour{
		ID:            "0b9f4c1e-4f7a-4f5e-9d38-3f2b5a1c7e11",
		Title:         "Westminster Bridge",
		Slug:          "westminster-bridge",
		City:          "London",
		Address:       "Somewhere in London",
		Distance:      300,
		Photo:         "/tour-images/tour-img01.jpg",
		Desc:          "A walk across the Thames",
		Price:         99,
		MaxGroupSize:  10,
		Featured:      true,
		AverageRating: 4.5,
		ReviewCount:   2,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func tourValues(t domain.Tour) []any {
	return []any{
		t.ID, t.Title, t.Slug, t.City, t.Address, t.Distance, t.Photo, t.Desc, t.Price,
		t.MaxGroupSize, t.Featured, t.AverageRating, t.ReviewCount, t.CreatedAt, t.UpdatedAt,
	}
}

func TestTourRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	mock.ExpectExec("INSERT INTO tours").
		WithArgs(tourValues(tour)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), &tour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_Create_DuplicateTitle(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	mock.ExpectExec("INSERT INTO tours").
		WithArgs(tourValues(tour)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tours_title_key"})

	err := repo.Create(context.Background(), &tour)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	want := sampleTour()

	mock.ExpectQuery("FROM tours WHERE id = ").
		WithArgs(want.ID).
		WillReturnRows(pgxmock.NewRows(tourCols).AddRow(tourValues(want)...))

	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("FROM tours WHERE id = ").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTourRepository_Exists(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("t-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTourRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	mock.ExpectExec("UPDATE tours").
		WithArgs(tour.Title, tour.Slug, tour.City, tour.Address, tour.Distance, tour.Photo,
			tour.Desc, tour.Price, tour.MaxGroupSize, tour.Featured, pgxmock.AnyArg(), tour.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &tour)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTourRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectExec("DELETE FROM tours").
		WithArgs("t-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "t-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_Search_BuildsFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	cols := append(append([]string{}, tourCols...), "total_count")
	mock.ExpectQuery(`websearch_to_tsquery\('simple', \$1\) \|\| websearch_to_tsquery\('english', \$1\)(.+)lower\(city\) = lower\(\$2\)(.+)distance >= \$3(.+)max_group_size >= \$4(.+)LIMIT \$5 OFFSET \$6`).
		WithArgs("bridge", "london", 100.0, 5, 8, 8).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(tourValues(tour), 9)...))

	tours, total, err := repo.Search(context.Background(), domain.TourFilter{
		Query:        "bridge",
		City:         "london",
		MinDistance:  100,
		MinGroupSize: 5,
		Page:         2,
		PerPage:      8,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
	require.Len(t, tours, 1)
	assert.Equal(t, tour.Title, tours[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_List_EmptyPage(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	cols := append(append([]string{}, tourCols...), "total_count")
	mock.ExpectQuery("FROM tours").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	tours, total, err := repo.List(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Empty(t, tours)
	assert.NotNil(t, tours)
	assert.Zero(t, total)
}

func TestTourRepository_ListByIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	cols := append(append([]string{}, tourCols...), "total_count")
	mock.ExpectQuery(`WHERE id = ANY`).
		WithArgs([]string{tour.ID}).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(tourValues(tour), 0)...))

	tours, err := repo.ListByIDs(context.Background(), []string{tour.ID})
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, tour.ID, tours[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_ListByIDs_EmptySkipsQuery(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	tours, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_ListFeatured(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)
	tour := sampleTour()

	cols := append(append([]string{}, tourCols...), "total_count")
	mock.ExpectQuery("WHERE featured").
		WithArgs(8).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(append(tourValues(tour), 0)...))

	tours, err := repo.ListFeatured(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.True(t, tours[0].Featured)
}

func TestTourRepository_Count(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestTourRepository_RefreshRating(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("UPDATE tours t").
		WithArgs("t-1").
		WillReturnRows(pgxmock.NewRows([]string{"average_rating", "review_count"}).AddRow(4.0, 2))

	s, err := repo.RefreshRating(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{AverageRating: 4, ReviewCount: 2}, s)
}

func TestTourRepository_RefreshRating_ZeroWhenNoReviews(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("UPDATE tours t").
		WithArgs("t-1").
		WillReturnRows(pgxmock.NewRows([]string{"average_rating", "review_count"}).AddRow(0.0, 0))

	s, err := repo.RefreshRating(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{}, s)
}

func TestTourRepository_RefreshRating_Errors(t *testing.T) {
	mock := newMock(t)
	repo := NewTourRepository(mock)

	mock.ExpectQuery("UPDATE tours t").WithArgs("gone").WillReturnError(pgx.ErrNoRows)
	_, err := repo.RefreshRating(context.Background(), "gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mock.ExpectQuery("UPDATE tours t").WithArgs("t-1").WillReturnError(errors.New("conn closed"))
	_, err = repo.RefreshRating(context.Background(), "t-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh tour rating")
}

func TestLimitOffset_HugePageStaysNonNegative(t *testing.T) {
	limit, offset := limitOffset(922337203685477581, 20)
	assert.Equal(t, 20, limit)
	assert.GreaterOrEqual(t, offset, 0)

	_, offset = limitOffset(math.MaxInt, 100)
	assert.GreaterOrEqual(t, offset, 0)

	_, offset = limitOffset(3, 10)
	assert.Equal(t, 20, offset)
}
