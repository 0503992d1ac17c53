package domain

import (
	"math"
	"strings"
	"time"
)

// Review bounds and limits.
const (
	MinRating         = 0.0
	MaxRating         = 5.0
	MinReviewTextSize = 10
)

// Review is a rating left on a tour.
type Review struct {
	ID         string    `json:"id"`
	TourID     string    `json:"productId"`
	UserID     string    `json:"userId,omitempty"`
	Username   string    `json:"username"`
	ReviewText string    `json:"reviewText"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Normalize trims the free-text fields in place.
func (r *Review) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.ReviewText = strings.TrimSpace(r.ReviewText)
}

// Validate returns a field name to message map, empty when r is valid.
// It expects r to be normalized.
func (r *Review) Validate() map[string]string {
	problems := make(map[string]string)
	if r.TourID == "" {
		problems["productId"] = "productId is required"
	}
	if r.Username == "" {
		problems["username"] = "username is required"
	}
	if len([]rune(r.ReviewText)) < MinReviewTextSize {
		problems["reviewText"] = "Review text must be at least 10 characters"
	}
	if math.IsNaN(r.Rating) || math.IsInf(r.Rating, 0) {
		problems["rating"] = "Rating must be a number"
	} else if r.Rating < MinRating {
		problems["rating"] = "Rating must be at least 0"
	} else if r.Rating > MaxRating {
		problems["rating"] = "Rating cannot exceed 5"
	}
	return problems
}
