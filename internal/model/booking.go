package model

import "time"

// Booking statuses. Every booking starts as pending; admins move it
// to confirmed or cancelled. Statuses are stored lowercase.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a member's reservation of exactly one class or one
// event. ClassID and EventID are mutually exclusive; PackID and
// ScheduleID are optional attachments. PaymentID is an opaque
// reference recorded as sent by the client.
type Booking struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ClassID    *string   `json:"classId,omitempty"`
	EventID    *string   `json:"eventId,omitempty"`
	PackID     *string   `json:"packId,omitempty"`
	ScheduleID *string   `json:"scheduleId,omitempty"`
	PaymentID  string    `json:"paymentId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BookingAddOn is the join row linking a booking to an add-on. The
// add-on price is not copied here; it is read live when the booking
// is rendered.
type BookingAddOn struct {
	BookingID string `json:"bookingId"`
	AddonID   string `json:"addonId"`
}
