package model

import "time"

// Pack kinds. Solo packs cover one-on-one sessions, group packs
// cover regular class sessions.
const (
	PackKindSolo  = "solo"
	PackKindGroup = "group"
)

// Trainer is a studio trainer shown on the public site and
// optionally attached to classes.
type Trainer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Specialty string    `json:"specialty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Schedule is a recurring weekly time slot for a class. Weekday is
// 0 (Sunday) through 6; StartTime is "HH:MM" in the studio's local
// timezone.
type Schedule struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"classId"`
	Weekday     uint8     `json:"weekday"`
	StartTime   string    `json:"startTime"`
	DurationMin uint32    `json:"durationMin"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Pack is a prepaid bundle of sessions a member can apply toward
// bookings.
type Pack struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Sessions    uint32    `json:"sessions"`
	PriceCents  uint32    `json:"priceCents"`
	Kind        string    `json:"kind"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Addon is an optional priced extra attachable to a booking. Its
// price is read live when a booking is rendered, not copied onto the
// booking_addons row.
type Addon struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents uint32    `json:"priceCents"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Enquiry is a public contact request handled by admins.
type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attendance records whether the member behind a booking showed up
// for an activity. ActivityKind is derived from the activity id
// prefix when the record is created.
type Attendance struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"bookingId"`
	ActivityID   string    `json:"activityId"`
	ActivityKind string    `json:"activityKind"`
	Attended     bool      `json:"attended"`
	MarkedAt     time.Time `json:"markedAt"`
}
