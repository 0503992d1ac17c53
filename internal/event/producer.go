package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parasjain182005/Travel-Website/internal/domain"
	pkgkafka "github.com/parasjain182005/Travel-Website/pkg/kafka"
)

// TopicReviewEvents carries both review lifecycle events. Messages are keyed
// by tour ID so events of one tour are consumed in order.
var TopicReviewEvents = pkgkafka.Topic("review", "events")

// Aggregate type of review events. The aggregate is the tour whose rating
// they affect.
const AggregateTypeTour = "tour"

// SourceTravelAPI identifies events published by the API server.
const SourceTravelAPI = "travel-api"

// Publisher is the part of *pkgkafka.Producer the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// QueuedDispatcher hands review events to Kafka. The rating consumer
// recomputes the aggregate some time after the write is acknowledged.
type QueuedDispatcher struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewQueuedDispatcher creates a dispatcher publishing through p.
func NewQueuedDispatcher(p Publisher, logger *slog.Logger) *QueuedDispatcher {
	return &QueuedDispatcher{publisher: p, logger: logger}
}

// ReviewCreated publishes a review.created event.
func (d *QueuedDispatcher) ReviewCreated(ctx context.Context, evt domain.ReviewCreated) error {
	return d.publish(ctx, domain.EventReviewCreated, evt.TourID, evt)
}

// ReviewRemoved publishes a review.removed event.
func (d *QueuedDispatcher) ReviewRemoved(ctx context.Context, evt domain.ReviewRemoved) error {
	return d.publish(ctx, domain.EventReviewRemoved, evt.TourID, evt)
}

func (d *QueuedDispatcher) publish(ctx context.Context, eventType, tourID string, data any) error {
	e, err := pkgkafka.NewEvent(ctx, eventType, AggregateTypeTour, tourID, SourceTravelAPI, data)
	if err != nil {
		return err
	}
	if err := d.publisher.Publish(ctx, TopicReviewEvents, e); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	d.logger.DebugContext(ctx, "review event queued",
		slog.String("event_type", eventType),
		slog.String("event_id", e.EventID),
		slog.String("tour_id", tourID),
	)
	return nil
}
