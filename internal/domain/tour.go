package domain

import "time"

// Tour is a bookable trip. AverageRating and ReviewCount cache the
// aggregate of the tour's reviews and are only written by the rating
// aggregator.
type Tour struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	City          string    `json:"city"`
	Address       string    `json:"address"`
	Distance      float64   `json:"distance"`
	Photo         string    `json:"photo"`
	Desc          string    `json:"desc"`
	Price         float64   `json:"price"`
	MaxGroupSize  int       `json:"maxGroupSize"`
	Featured      bool      `json:"featured"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	Reviews       []Review  `json:"reviews,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TourFilter narrows a tour search. Zero values are ignored.
type TourFilter struct {
	Query        string
	City         string
	MinDistance  float64
	MinGroupSize int
	Page         int
	PerPage      int
}
