package service

import (
	"context"

	"github.com/parasjain182005/Travel-Website/internal/domain"
)

// ReviewEventDispatcher runs the post-write hooks of the review lifecycle.
type ReviewEventDispatcher interface {
	ReviewCreated(ctx context.Context, evt domain.ReviewCreated) error
	ReviewRemoved(ctx context.Context, evt domain.ReviewRemoved) error
}

// SyncDispatcher recomputes the tour rating before the review write is
// acknowledged, so a read after the write sees the new aggregate.
type SyncDispatcher struct {
	aggregator *RatingAggregator
}

// NewSyncDispatcher creates an inline dispatcher.
func NewSyncDispatcher(aggregator *RatingAggregator) *SyncDispatcher {
	return &SyncDispatcher{aggregator: aggregator}
}

func (d *SyncDispatcher) ReviewCreated(ctx context.Context, evt domain.ReviewCreated) error {
	_, err := d.aggregator.Recompute(ctx, evt.TourID, TriggerReviewCreated)
	return err
}

func (d *SyncDispatcher) ReviewRemoved(ctx context.Context, evt domain.ReviewRemoved) error {
	_, err := d.aggregator.Recompute(ctx, evt.TourID, TriggerReviewRemoved)
	return err
}
