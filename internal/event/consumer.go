package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	"github.com/parasjain182005/Travel-Website/internal/service"
	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	pkgkafka "github.com/parasjain182005/Travel-Website/pkg/kafka"
	"github.com/parasjain182005/Travel-Website/pkg/logger"
)

// Recomputer refreshes the cached rating of a tour.
type Recomputer interface {
	Recompute(ctx context.Context, tourID, trigger string) (domain.RatingSummary, error)
}

// NewRatingHandler returns a handler that recomputes the rating of the tour
// named in a review event. Events for tours that no longer exist are
// dropped; other failures are returned so the consumer retries.
func NewRatingHandler(r Recomputer, log *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, e *pkgkafka.Event) error {
		ctx = logger.WithCorrelationID(ctx, e.CorrelationID)

		var tourID string
		switch e.EventType {
		case domain.EventReviewCreated:
			var evt domain.ReviewCreated
			if err := e.DecodeData(&evt); err != nil {
				return err
			}
			tourID = evt.TourID
		case domain.EventReviewRemoved:
			var evt domain.ReviewRemoved
			if err := e.DecodeData(&evt); err != nil {
				return err
			}
			tourID = evt.TourID
		default:
			log.DebugContext(ctx, "ignoring event", slog.String("event_type", e.EventType))
			return nil
		}
		if tourID == "" {
			tourID = e.AggregateID
		}

		if _, err := r.Recompute(ctx, tourID, service.TriggerConsumer); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				log.InfoContext(ctx, "tour gone, dropping review event",
					slog.String("tour_id", tourID),
					slog.String("event_id", e.EventID),
				)
				return nil
			}
			return apperrors.Aggregation(tourID, err)
		}
		return nil
	}
}

// NewRatingConsumer creates the consumer behind queued dispatch. store
// suppresses redelivered events; dlq may be nil.
func NewRatingConsumer(
	cfg pkgkafka.ConsumerConfig,
	r Recomputer,
	store pkgkafka.IdempotencyStore,
	dlq pkgkafka.DeadLetterPublisher,
	log *slog.Logger,
) *pkgkafka.Consumer {
	if cfg.Topic == "" {
		cfg.Topic = TopicReviewEvents
	}
	handler := pkgkafka.IdempotentHandler(store, NewRatingHandler(r, log), log)
	return pkgkafka.NewConsumer(cfg, handler, dlq, log)
}
