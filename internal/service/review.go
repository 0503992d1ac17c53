package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/repository"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
	"github.com/parasjain182005/Travel-Website/pkg/validator"
)

// ReviewService manages reviews and keeps each tour's cached rating in step
// with them through its dispatcher.
type ReviewService struct {
	reviews    repository.ReviewRepository
	tours      repository.TourRepository
	aggregator *RatingAggregator
	dispatcher ReviewEventDispatcher
	logger     *slog.Logger
}

// NewReviewService creates a review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	tours repository.TourRepository,
	aggregator *RatingAggregator,
	dispatcher ReviewEventDispatcher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		tours:      tours,
		aggregator: aggregator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateReviewInput holds the parameters for submitting a review.
type CreateReviewInput struct {
	TourID     string
	UserID     string
	Username   string
	ReviewText string
	Rating     float64
}

// UpdateReviewInput holds the editable review fields. Nil fields are kept.
type UpdateReviewInput struct {
	ReviewText *string
	Rating     *float64
}

// CreateReview validates and stores a review, then refreshes the tour's
// cached rating. A failed refresh is logged and does not fail the call.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error) {
	now := time.Now().UTC()
	review := &domain.Review{
		ID:         uuid.New().String(),
		TourID:     in.TourID,
		UserID:     in.UserID,
		Username:   in.Username,
		ReviewText: in.ReviewText,
		Rating:     in.Rating,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	review.Normalize()
	if err := validator.FieldErrors(review.Validate()); err != nil {
		return nil, err
	}

	exists, err := s.tours.Exists(ctx, review.TourID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("tour", review.TourID)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("tour_id", review.TourID),
		slog.String("username", review.Username),
	)

	s.afterWrite(ctx, review.TourID, func(ctx context.Context) error {
		return s.dispatcher.ReviewCreated(ctx, domain.ReviewCreated{
			ReviewID:   review.ID,
			TourID:     review.TourID,
			Rating:     review.Rating,
			OccurredAt: now,
		})
	})
	return review, nil
}

// GetReview returns a single review.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListReviews returns a tour's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, tourID string) ([]domain.Review, error) {
	exists, err := s.tours.Exists(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("tour", tourID)
	}
	return s.reviews.ListByTour(ctx, tourID)
}

// UpdateReview edits a review owned by the actor. A rating change refreshes
// the tour's cached rating the same way a new review does.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, id string, in UpdateReviewInput) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(review.UserID) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("you can only edit your own reviews")
	}

	previous := review.Rating
	if in.ReviewText != nil {
		review.ReviewText = *in.ReviewText
	}
	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	review.Normalize()
	if err := validator.FieldErrors(review.Validate()); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	if review.Rating != previous {
		s.afterWrite(ctx, review.TourID, func(ctx context.Context) error {
			return s.dispatcher.ReviewCreated(ctx, domain.ReviewCreated{
				ReviewID:   review.ID,
				TourID:     review.TourID,
				Rating:     review.Rating,
				OccurredAt: review.UpdatedAt,
			})
		})
	}
	return review, nil
}

// DeleteReview removes a review. Authors may delete their own reviews;
// admins and moderators may delete any.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(review.UserID) && !actor.CanModerate() {
		return apperrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	logger.WithContext(ctx, s.logger).InfoContext(ctx, "review deleted",
		slog.String("review_id", id),
		slog.String("tour_id", review.TourID),
	)

	s.afterWrite(ctx, review.TourID, func(ctx context.Context) error {
		return s.dispatcher.ReviewRemoved(ctx, domain.ReviewRemoved{
			ReviewID:   review.ID,
			TourID:     review.TourID,
			OccurredAt: time.Now().UTC(),
		})
	})
	return nil
}

// RatingSummary computes a tour's rating from its reviews without touching
// the cached copy.
func (s *ReviewService) RatingSummary(ctx context.Context, tourID string) (domain.RatingSummary, error) {
	return s.aggregator.ComputeAverage(ctx, tourID)
}

// RecomputeRating forces a refresh of the cached rating and returns the
// stored values. Unlike the post-write hooks, failures are returned.
func (s *ReviewService) RecomputeRating(ctx context.Context, tourID string) (domain.RatingSummary, error) {
	summary, err := s.aggregator.Recompute(ctx, tourID, TriggerForced)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.RatingSummary{}, err
		}
		return domain.RatingSummary{}, apperrors.Aggregation(tourID, err)
	}
	return summary, nil
}

// afterWrite runs a post-write hook. The review write has already been
// committed, so failures are reported as aggregation errors in the log only.
func (s *ReviewService) afterWrite(ctx context.Context, tourID string, hook func(context.Context) error) {
	ctx = logger.WithTourID(ctx, tourID)
	if err := hook(ctx); err != nil {
		aggErr := apperrors.Aggregation(tourID, err)
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "rating refresh failed, review write kept",
			slog.String("error", aggErr.Error()),
		)
	}
}
