package domain

import "time"

// Review event types.
const (
	EventReviewCreated = "review.created"
	EventReviewRemoved = "review.removed"
)

// ReviewCreated is raised after a review is stored or its rating changes.
type ReviewCreated struct {
	ReviewID   string    `json:"review_id"`
	TourID     string    `json:"tour_id"`
	Rating     float64   `json:"rating"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewRemoved is raised after a review is deleted.
type ReviewRemoved struct {
	ReviewID   string    `json:"review_id"`
	TourID     string    `json:"tour_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
