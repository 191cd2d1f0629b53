package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsefit/studio-booking/internal/model"
)

func TestSpotAdjustmentPerStatusChange(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     int
	}{
		{"cancel releases", model.BookingStatusPending, model.BookingStatusCancelled, -1},
		{"cancel from confirmed releases", model.BookingStatusConfirmed, model.BookingStatusCancelled, -1},
		{"repeated cancel is a no-op", model.BookingStatusCancelled, model.BookingStatusCancelled, 0},
		{"confirm after cancel re-reserves", model.BookingStatusCancelled, model.BookingStatusConfirmed, +1},
		{"back to pending after cancel re-reserves", model.BookingStatusCancelled, model.BookingStatusPending, +1},
		{"confirm keeps the reservation", model.BookingStatusPending, model.BookingStatusConfirmed, 0},
		{"repeated confirm is a no-op", model.BookingStatusConfirmed, model.BookingStatusConfirmed, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, spotAdjustment(tc.from, tc.to))
		})
	}
}

// A booking that is cancelled, re-confirmed and cancelled again must
// release exactly the one spot it reserved at creation, no matter how
// often it bounces through cancelled.
func TestSpotAdjustmentSequenceNetsOneRelease(t *testing.T) {
	sequences := [][]string{
		{model.BookingStatusCancelled},
		{model.BookingStatusConfirmed, model.BookingStatusCancelled},
		{model.BookingStatusCancelled, model.BookingStatusConfirmed, model.BookingStatusCancelled},
		{model.BookingStatusCancelled, model.BookingStatusPending, model.BookingStatusCancelled, model.BookingStatusConfirmed, model.BookingStatusCancelled},
	}
	for _, seq := range sequences {
		status := model.BookingStatusPending
		net := 0
		for _, next := range seq {
			net += spotAdjustment(status, next)
			status = next
		}
		assert.Equal(t, -1, net, "sequence %v must net a single release", seq)
	}
}
