package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/repository"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
)

var (
	ratingRecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rating_recompute_total",
		Help: "Cached tour rating recomputations by trigger.",
	}, []string{"trigger"})

	ratingRecomputeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rating_recompute_failures_total",
		Help: "Failed cached tour rating recomputations by trigger.",
	}, []string{"trigger"})
)

// Recompute triggers.
const (
	TriggerReviewCreated = "review_created"
	TriggerReviewRemoved = "review_removed"
	TriggerForced        = "forced"
	TriggerConsumer      = "consumer"
)

// RatingAggregator derives a tour's rating from its reviews and keeps the
// cached copy on the tour row current.
type RatingAggregator struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	logger  *slog.Logger
}

// NewRatingAggregator creates a rating aggregator.
func NewRatingAggregator(tours repository.TourRepository, reviews repository.ReviewRepository, logger *slog.Logger) *RatingAggregator {
	return &RatingAggregator{tours: tours, reviews: reviews, logger: logger}
}

// ComputeAverage returns the mean rating and review count of a tour without
// writing anything. A tour without reviews yields {0, 0}.
func (a *RatingAggregator) ComputeAverage(ctx context.Context, tourID string) (domain.RatingSummary, error) {
	exists, err := a.tours.Exists(ctx, tourID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if !exists {
		return domain.RatingSummary{}, apperrors.NotFound("tour", tourID)
	}
	return a.reviews.Summary(ctx, tourID)
}

// Recompute refreshes the cached rating of a tour and returns the stored
// values. Concurrent calls for one tour are last-write-wins.
func (a *RatingAggregator) Recompute(ctx context.Context, tourID, trigger string) (domain.RatingSummary, error) {
	summary, err := a.tours.RefreshRating(ctx, tourID)
	if err != nil {
		ratingRecomputeFailures.WithLabelValues(trigger).Inc()
		return domain.RatingSummary{}, err
	}
	ratingRecomputeTotal.WithLabelValues(trigger).Inc()

	ctx = logger.WithTourID(ctx, tourID)
	logger.WithContext(ctx, a.logger).DebugContext(ctx, "tour rating recomputed",
		slog.String("trigger", trigger),
		slog.Float64("average_rating", summary.AverageRating),
		slog.Int("review_count", summary.ReviewCount),
	)
	return summary, nil
}
