package model

import "time"

// Activity kinds, derived from the id prefix of the booked activity.
const (
	ActivityKindClass = "class"
	ActivityKindEvent = "event"
)

// Class is a recurring group session with a fixed capacity.
// BookedSpots is maintained by the booking flow and never exceeds
// MaxSpots.
type Class struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TrainerID   *string   `json:"trainerId,omitempty"`
	PriceCents  uint32    `json:"priceCents"`
	MaxSpots    uint32    `json:"maxSpots"`
	BookedSpots uint32    `json:"bookedSpots"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Event is a one-off dated session with a fixed capacity.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	PriceCents  uint32    `json:"priceCents"`
	MaxSpots    uint32    `json:"maxSpots"`
	BookedSpots uint32    `json:"bookedSpots"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
