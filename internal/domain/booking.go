package domain

import "time"

// Guest size bounds for a booking.
const (
	MinGuestSize = 1
	MaxGuestSize = 100
)

// Booking is a reservation of a tour by a user.
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
	UpdatedAt time.Time `json:"updatedAt"`
}
