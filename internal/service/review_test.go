package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// --- Mock Dispatcher ---

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) ReviewCreated(ctx context.Context, evt domain.ReviewCreated) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockDispatcher) ReviewRemoved(ctx context.Context, evt domain.ReviewRemoved) error {
	return m.Called(ctx, evt).Error(0)
}

// --- Test Helpers ---

const testTourID = "tour-1"

func seededStore(ratings ...float64) *memStore {
	s := newMemStore(domain.Tour{ID: testTourID, Title: "Westminster Bridge"})
	for i, r := range ratings {
		id := string(rune('a' + i))
		s.reviews[id] = domain.Review{
			ID:         id,
			TourID:     testTourID,
			UserID:     "seed-user",
			Username:   "seed",
			ReviewText: "a seeded review",
			Rating:     r,
			CreatedAt:  time.Now().UTC(),
		}
	}
	t := s.tours[testTourID]
	summary := domain.ComputeRating(s.ratings(testTourID))
	t.AverageRating, t.ReviewCount = summary.AverageRating, summary.ReviewCount
	s.tours[testTourID] = t
	return s
}

func newSyncReviewService(s *memStore) *ReviewService {
	tours, reviews := memTours{s}, memReviews{s}
	agg := NewRatingAggregator(tours, reviews, logger.Discard())
	return NewReviewService(reviews, tours, agg, NewSyncDispatcher(agg), logger.Discard())
}

func validReview() CreateReviewInput {
	return CreateReviewInput{
		TourID:     testTourID,
		UserID:     "user-1",
		Username:   "alice",
		ReviewText: "Loved every minute of it",
		Rating:     5,
	}
}

// --- Tests ---

func TestComputeAverage(t *testing.T) {
	ctx := context.Background()

	t.Run("no reviews", func(t *testing.T) {
		s := seededStore()
		agg := NewRatingAggregator(memTours{s}, memReviews{s}, logger.Discard())
		got, err := agg.ComputeAverage(ctx, testTourID)
		require.NoError(t, err)
		assert.Equal(t, domain.RatingSummary{}, got)
	})

	t.Run("mean of ratings", func(t *testing.T) {
		s := seededStore(2, 3, 5)
		agg := NewRatingAggregator(memTours{s}, memReviews{s}, logger.Discard())
		got, err := agg.ComputeAverage(ctx, testTourID)
		require.NoError(t, err)
		assert.InDelta(t, 10.0/3, got.AverageRating, 1e-9)
		assert.Equal(t, 3, got.ReviewCount)
	})

	t.Run("unknown tour", func(t *testing.T) {
		s := seededStore()
		agg := NewRatingAggregator(memTours{s}, memReviews{s}, logger.Discard())
		_, err := agg.ComputeAverage(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCreateReview_RefreshesCachedRating(t *testing.T) {
	s := seededStore(3)
	svc := newSyncReviewService(s)

	review, err := svc.CreateReview(context.Background(), validReview())
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	tour := s.tour(testTourID)
	assert.Equal(t, 4.0, tour.AverageRating)
	assert.Equal(t, 2, tour.ReviewCount)
}

func TestCreateReview_TrimsInput(t *testing.T) {
	s := seededStore()
	svc := newSyncReviewService(s)

	in := validReview()
	in.Username = "  alice  "
	in.ReviewText = "   Loved every minute of it   "

	review, err := svc.CreateReview(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Username)
	assert.Equal(t, "Loved every minute of it", review.ReviewText)
}

func TestCreateReview_ValidationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateReviewInput)
		field  string
		msg    string
	}{
		{"short text", func(in *CreateReviewInput) { in.ReviewText = "  too short " }, "reviewText", "Review text must be at least 10 characters"},
		{"rating below zero", func(in *CreateReviewInput) { in.Rating = -1 }, "rating", "Rating must be at least 0"},
		{"rating above five", func(in *CreateReviewInput) { in.Rating = 5.5 }, "rating", "Rating cannot exceed 5"},
		{"missing username", func(in *CreateReviewInput) { in.Username = " " }, "username", "username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore()
			svc := newSyncReviewService(s)
			in := validReview()
			tt.mutate(&in)

			review, err := svc.CreateReview(context.Background(), in)
			assert.Nil(t, review)
			require.ErrorIs(t, err, apperrors.ErrInvalidInput)

			var verr *validator.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.msg, verr.Fields()[tt.field])
			assert.Empty(t, s.reviews)
		})
	}
}

func TestCreateReview_BoundaryRatings(t *testing.T) {
	for _, rating := range []float64{0, 5} {
		s := seededStore()
		svc := newSyncReviewService(s)
		in := validReview()
		in.Rating = rating

		_, err := svc.CreateReview(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, rating, s.tour(testTourID).AverageRating)
	}
}

func TestCreateReview_UnknownTour(t *testing.T) {
	s := seededStore()
	svc := newSyncReviewService(s)
	in := validReview()
	in.TourID = "missing"

	_, err := svc.CreateReview(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateReview_HookFailureKeepsReview(t *testing.T) {
	s := seededStore(3)
	s.refreshErr = errors.New("connection reset")

	var buf bytes.Buffer
	tours, reviews := memTours{s}, memReviews{s}
	agg := NewRatingAggregator(tours, reviews, logger.Discard())
	svc := NewReviewService(reviews, tours, agg, NewSyncDispatcher(agg), logger.NewWithWriter("test", "debug", &buf))

	review, err := svc.CreateReview(context.Background(), validReview())
	require.NoError(t, err)
	require.NotNil(t, review)

	_, stored := s.reviews[review.ID]
	assert.True(t, stored)

	tour := s.tour(testTourID)
	assert.Equal(t, 3.0, tour.AverageRating, "cached rating stays stale")
	assert.Equal(t, 1, tour.ReviewCount)

	assert.Contains(t, buf.String(), "rating refresh failed")
	assert.Contains(t, buf.String(), testTourID)
}

func TestCreateReview_DispatchesEvent(t *testing.T) {
	s := seededStore()
	tours, reviews := memTours{s}, memReviews{s}
	agg := NewRatingAggregator(tours, reviews, logger.Discard())
	d := new(mockDispatcher)
	svc := NewReviewService(reviews, tours, agg, d, logger.Discard())

	d.On("ReviewCreated", mock.Anything, mock.MatchedBy(func(evt domain.ReviewCreated) bool {
		return evt.TourID == testTourID && evt.Rating == 5 && evt.ReviewID != ""
	})).Return(errors.New("broker down"))

	_, err := svc.CreateReview(context.Background(), validReview())
	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestDeleteReview_LastReviewResetsRating(t *testing.T) {
	s := seededStore(4)
	svc := newSyncReviewService(s)

	err := svc.DeleteReview(context.Background(), Actor{UserID: "seed-user", Role: domain.RoleUser}, "a")
	require.NoError(t, err)

	tour := s.tour(testTourID)
	assert.Zero(t, tour.AverageRating)
	assert.Zero(t, tour.ReviewCount)
}

func TestDeleteReview_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{"author", Actor{UserID: "seed-user", Role: domain.RoleUser}, nil},
		{"moderator", Actor{UserID: "mod", Role: domain.RoleModerator}, nil},
		{"admin", Actor{UserID: "root", Role: domain.RoleAdmin}, nil},
		{"other user", Actor{UserID: "user-2", Role: domain.RoleUser}, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore(2, 4)
			svc := newSyncReviewService(s)

			err := svc.DeleteReview(context.Background(), tt.actor, "a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, s.reviews, 2)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4.0, s.tour(testTourID).AverageRating)
			assert.Equal(t, 1, s.tour(testTourID).ReviewCount)
		})
	}
}

func TestDeleteReview_NotFound(t *testing.T) {
	svc := newSyncReviewService(seededStore())
	err := svc.DeleteReview(context.Background(), Actor{UserID: "u", Role: domain.RoleAdmin}, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("rating change refreshes aggregate", func(t *testing.T) {
		s := seededStore(2, 4)
		svc := newSyncReviewService(s)
		rating := 5.0

		review, err := svc.UpdateReview(ctx, Actor{UserID: "seed-user"}, "a", UpdateReviewInput{Rating: &rating})
		require.NoError(t, err)
		assert.Equal(t, 5.0, review.Rating)
		assert.Equal(t, 4.5, s.tour(testTourID).AverageRating)
	})

	t.Run("text only skips dispatch", func(t *testing.T) {
		s := seededStore(2)
		tours, reviews := memTours{s}, memReviews{s}
		d := new(mockDispatcher)
		svc := NewReviewService(reviews, tours, NewRatingAggregator(tours, reviews, logger.Discard()), d, logger.Discard())
		text := "Changed my mind about it"

		review, err := svc.UpdateReview(ctx, Actor{UserID: "seed-user"}, "a", UpdateReviewInput{ReviewText: &text})
		require.NoError(t, err)
		assert.Equal(t, text, review.ReviewText)
		d.AssertNotCalled(t, "ReviewCreated", mock.Anything, mock.Anything)
	})

	t.Run("other user forbidden", func(t *testing.T) {
		s := seededStore(2)
		svc := newSyncReviewService(s)
		rating := 1.0

		_, err := svc.UpdateReview(ctx, Actor{UserID: "user-2", Role: domain.RoleModerator}, "a", UpdateReviewInput{Rating: &rating})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Equal(t, 2.0, s.reviews["a"].Rating)
	})

	t.Run("invalid rating", func(t *testing.T) {
		s := seededStore(2)
		svc := newSyncReviewService(s)
		rating := 7.0

		_, err := svc.UpdateReview(ctx, Actor{UserID: "seed-user"}, "a", UpdateReviewInput{Rating: &rating})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestListReviews(t *testing.T) {
	svc := newSyncReviewService(seededStore(1, 2))

	got, err := svc.ListReviews(context.Background(), testTourID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListReviews(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecomputeRating(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs stale cache", func(t *testing.T) {
		s := seededStore(1, 5)
		t0 := s.tours[testTourID]
		t0.AverageRating, t0.ReviewCount = 0, 0
		s.tours[testTourID] = t0
		svc := newSyncReviewService(s)

		got, err := svc.RecomputeRating(ctx, testTourID)
		require.NoError(t, err)
		assert.Equal(t, domain.RatingSummary{AverageRating: 3, ReviewCount: 2}, got)
		assert.Equal(t, 3.0, s.tour(testTourID).AverageRating)
	})

	t.Run("unknown tour", func(t *testing.T) {
		svc := newSyncReviewService(seededStore())
		_, err := svc.RecomputeRating(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrAggregation)
	})

	t.Run("store failure is an aggregation error", func(t *testing.T) {
		s := seededStore(1)
		s.refreshErr = errors.New("timeout")
		svc := newSyncReviewService(s)

		_, err := svc.RecomputeRating(ctx, testTourID)
		assert.ErrorIs(t, err, apperrors.ErrAggregation)
		assert.Equal(t, 500, apperrors.HTTPStatus(err))
	})
}

func TestRatingSummary_ReadOnly(t *testing.T) {
	s := seededStore(2, 4)
	t0 := s.tours[testTourID]
	t0.AverageRating = 0
	s.tours[testTourID] = t0
	svc := newSyncReviewService(s)

	got, err := svc.RatingSummary(context.Background(), testTourID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.Zero(t, s.tour(testTourID).AverageRating)
}
