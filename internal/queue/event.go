// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer pair that moves them.
package queue

// BookingStatusEvent is published on every booking status change.
// It carries enough information for downstream consumers to audit or
// notify without querying the primary database.
type BookingStatusEvent struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	ItemType  string `json:"itemType"`
	ItemName  string `json:"itemName"`
	Status    string `json:"status"`
	DateTime  string `json:"dateTime"`
	ChangedAt string `json:"changedAt"`
}
