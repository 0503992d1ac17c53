package domain

// RatingSummary is the aggregate of a tour's reviews.
type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ComputeRating returns the arithmetic mean and count of ratings.
// An empty set yields the zero summary.
func ComputeRating(ratings []float64) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return RatingSummary{
		AverageRating: sum / float64(len(ratings)),
		ReviewCount:   len(ratings),
	}
}
