package client

import "time"

// PageMeta describes a paginated list response.
type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo,omitempty"`
}

// Tour as returned by the API. Reviews is only set by GetTour.
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

type Review struct {
	ID         string    `json:"id"`
	TourID     string    `json:"productId"`
	UserID     string    `json:"userId,omitempty"`
	Username   string    `json:"username"`
	ReviewText string    `json:"reviewText"`
	Rating     float64   `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewRequest is the body of a review submission.
type ReviewRequest struct {
	Username   string  `json:"username"`
	ReviewText string  `json:"reviewText"`
	Rating     float64 `json:"rating"`
}

type RatingSummary struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

type BookingRequest struct {
	UserEmail string     `json:"userEmail"`
	TourName  string     `json:"tourName"`
	FullName  string     `json:"fullName"`
	GuestSize int        `json:"guestSize"`
	Phone     string     `json:"phone"`
	BookAt    *time.Time `json:"bookAt,omitempty"`
}

type Booking struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail"`
	TourName  string    `json:"tourName"`
	FullName  string    `json:"fullName"`
	GuestSize int       `json:"guestSize"`
	Phone     string    `json:"phone"`
	BookAt    time.Time `json:"bookAt"`
	CreatedAt time.Time `json:"createdAt"`
}
