package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/search"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
)

func newTestTourService(s *memStore) *TourService {
	return NewTourService(memTours{s}, memReviews{s}, logger.Discard())
}

func validTour() CreateTourInput {
	return CreateTourInput{
		Title:        "Westminster Bridge",
		City:         "London",
		Address:      "Westminster, London",
		Distance:     300,
		Photo:        "/tour-images/tour-img01.jpg",
		Desc:         "A walk across the Thames.",
		Price:        99,
		MaxGroupSize: 10,
		Featured:     true,
	}
}

func TestCreateTour(t *testing.T) {
	s := newMemStore()
	svc := newTestTourService(s)

	tour, err := svc.CreateTour(context.Background(), validTour())
	require.NoError(t, err)
	assert.NotEmpty(t, tour.ID)
	assert.Equal(t, "westminster-bridge", tour.Slug)
	assert.Zero(t, tour.AverageRating)
	assert.Zero(t, tour.ReviewCount)
	assert.Contains(t, s.tours, tour.ID)
}

func TestCreateTour_DuplicateTitle(t *testing.T) {
	s := newMemStore()
	svc := newTestTourService(s)

	_, err := svc.CreateTour(context.Background(), validTour())
	require.NoError(t, err)

	_, err = svc.CreateTour(context.Background(), validTour())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, s.tours, 1)
}

func TestCreateTour_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateTourInput)
	}{
		{"blank title", func(in *CreateTourInput) { in.Title = "  " }},
		{"distance below one", func(in *CreateTourInput) { in.Distance = 0.5 }},
		{"negative price", func(in *CreateTourInput) { in.Price = -1 }},
		{"empty group", func(in *CreateTourInput) { in.MaxGroupSize = 0 }},
		{"missing city", func(in *CreateTourInput) { in.City = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestTourService(newMemStore())
			in := validTour()
			tt.mutate(&in)

			_, err := svc.CreateTour(context.Background(), in)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestUpdateTour_RegeneratesSlug(t *testing.T) {
	s := newMemStore()
	svc := newTestTourService(s)
	ctx := context.Background()

	tour, err := svc.CreateTour(ctx, validTour())
	require.NoError(t, err)

	title := "Tower Bridge at Night"
	price := 120.0
	updated, err := svc.UpdateTour(ctx, tour.ID, UpdateTourInput{Title: &title, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "tower-bridge-at-night", updated.Slug)
	assert.Equal(t, 120.0, updated.Price)
	assert.Equal(t, "London", updated.City)
}

func TestUpdateTour_KeepsCachedRating(t *testing.T) {
	s := seededStore(2, 4)
	svc := newTestTourService(s)

	city := "Paris"
	updated, err := svc.UpdateTour(context.Background(), testTourID, UpdateTourInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.AverageRating)
	assert.Equal(t, 2, updated.ReviewCount)
}

func TestUpdateTour_NotFound(t *testing.T) {
	svc := newTestTourService(newMemStore())
	city := "Paris"
	_, err := svc.UpdateTour(context.Background(), "missing", UpdateTourInput{City: &city})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetTour_IncludesReviews(t *testing.T) {
	svc := newTestTourService(seededStore(1, 5))

	tour, err := svc.GetTour(context.Background(), testTourID)
	require.NoError(t, err)
	assert.Len(t, tour.Reviews, 2)
	assert.Equal(t, 3.0, tour.AverageRating)
}

func TestDeleteTour_CascadesReviews(t *testing.T) {
	s := seededStore(1, 5)
	svc := newTestTourService(s)

	require.NoError(t, svc.DeleteTour(context.Background(), testTourID))
	assert.Empty(t, s.tours)
	assert.Empty(t, s.reviews)

	assert.ErrorIs(t, svc.DeleteTour(context.Background(), testTourID), apperrors.ErrNotFound)
}

func TestListFeatured_ClampsLimit(t *testing.T) {
	s := newMemStore(
		domain.Tour{ID: "t1", Title: "a", Featured: true},
		domain.Tour{ID: "t2", Title: "b"},
	)
	svc := newTestTourService(s)

	got, err := svc.ListFeatured(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	n, err := svc.CountTours(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

type mockSearchEngine struct {
	mock.Mock
}

func (m *mockSearchEngine) Index(ctx context.Context, tour *domain.Tour) error {
	return m.Called(ctx, tour).Error(0)
}

func (m *mockSearchEngine) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSearchEngine) BulkIndex(ctx context.Context, tours []domain.Tour) error {
	return m.Called(ctx, tours).Error(0)
}

func (m *mockSearchEngine) Search(ctx context.Context, filter domain.TourFilter) (search.Hits, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(search.Hits), args.Error(1)
}

func (m *mockSearchEngine) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestCreateTour_IndexFailureDoesNotFailWrite(t *testing.T) {
	s := newMemStore()
	svc := newTestTourService(s)
	idx := new(mockSearchEngine)
	idx.On("Index", mock.Anything, mock.AnythingOfType("*domain.Tour")).Return(errors.New("cluster down"))
	svc.UseSearchIndex(idx)

	tour, err := svc.CreateTour(context.Background(), validTour())
	require.NoError(t, err)
	assert.Contains(t, s.tours, tour.ID)
	idx.AssertExpectations(t)
}

func TestDeleteTour_RemovesFromIndex(t *testing.T) {
	s := newMemStore(domain.Tour{ID: "tour-1", Title: "A"})
	svc := newTestTourService(s)
	idx := new(mockSearchEngine)
	idx.On("Delete", mock.Anything, "tour-1").Return(nil)
	svc.UseSearchIndex(idx)

	require.NoError(t, svc.DeleteTour(context.Background(), "tour-1"))
	idx.AssertExpectations(t)
}

func TestSearchTours_HydratesHitsInRankOrder(t *testing.T) {
	s := newMemStore(
		domain.Tour{ID: "a", Title: "A", AverageRating: 4},
		domain.Tour{ID: "b", Title: "B", AverageRating: 2},
	)
	svc := newTestTourService(s)
	idx := new(mockSearchEngine)
	filter := domain.TourFilter{Query: "bridge", Page: 1, PerPage: 10}
	idx.On("Search", mock.Anything, filter).Return(search.Hits{IDs: []string{"b", "gone", "a"}, Total: 3}, nil)
	svc.UseSearchIndex(idx)

	tours, total, err := svc.SearchTours(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, tours, 2)
	assert.Equal(t, "b", tours[0].ID)
	assert.Equal(t, "a", tours[1].ID)
	assert.Equal(t, 4.0, tours[1].AverageRating)
}

func TestSearchTours_FallsBackToDatabase(t *testing.T) {
	s := newMemStore(domain.Tour{ID: "a", Title: "A"})
	svc := newTestTourService(s)
	idx := new(mockSearchEngine)
	idx.On("Search", mock.Anything, mock.Anything).Return(search.Hits{}, errors.New("timeout"))
	svc.UseSearchIndex(idx)

	tours, total, err := svc.SearchTours(context.Background(), domain.TourFilter{Query: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, tours, 1)
}

func TestReindexSearch(t *testing.T) {
	s := newMemStore(domain.Tour{ID: "a", Title: "A"}, domain.Tour{ID: "b", Title: "B"})
	svc := newTestTourService(s)
	idx := new(mockSearchEngine)
	idx.On("BulkIndex", mock.Anything, mock.MatchedBy(func(ts []domain.Tour) bool { return len(ts) == 2 })).Return(nil).Once()
	svc.UseSearchIndex(idx)

	n, err := svc.ReindexSearch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	idx.AssertExpectations(t)
}

func TestReindexSearch_NoIndexIsNoop(t *testing.T) {
	svc := newTestTourService(newMemStore(domain.Tour{ID: "a"}))

	n, err := svc.ReindexSearch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
