package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-booking/internal/config"
	"github.com/pulsefit/studio-booking/internal/model"
)

func sampleNotification(status string) StatusNotification {
	return StatusNotification{
		To:       "m@example.com",
		Name:     "Mina",
		ItemType: model.ActivityKindClass,
		ItemName: "Morning Yoga",
		Status:   status,
		DateTime: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestRenderConfirmed(t *testing.T) {
	subject, body := Render(sampleNotification(model.BookingStatusConfirmed))
	assert.Equal(t, "Your class booking is confirmed", subject)
	assert.Contains(t, body, "Hi Mina,")
	assert.Contains(t, body, "Morning Yoga")
	assert.Contains(t, body, "is confirmed")
}

func TestRenderCancelled(t *testing.T) {
	subject, body := Render(sampleNotification(model.BookingStatusCancelled))
	assert.Equal(t, "Your class booking has been cancelled", subject)
	assert.Contains(t, body, "has been cancelled")
}

func TestRenderOtherStatus(t *testing.T) {
	subject, body := Render(sampleNotification(model.BookingStatusPending))
	assert.Equal(t, "Update on your class booking", subject)
	assert.Contains(t, body, "is now pending")
}

func TestSendStatusNotificationPostsToProvider(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewEmailSender(config.Config{
		EmailAPIKey:   "key_123",
		EmailFrom:     "bookings@studio.local",
		EmailEndpoint: srv.URL,
		NotifyTimeout: time.Second,
	}, zerolog.Nop())

	err := s.SendStatusNotification(context.Background(), sampleNotification(model.BookingStatusConfirmed))
	require.NoError(t, err)

	assert.Equal(t, "Bearer key_123", gotAuth)
	assert.Equal(t, "bookings@studio.local", gotPayload["from"])
	assert.Equal(t, []interface{}{"m@example.com"}, gotPayload["to"])
	assert.Equal(t, "Your class booking is confirmed", gotPayload["subject"])
}

func TestSendStatusNotificationProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewEmailSender(config.Config{
		EmailAPIKey:   "key_123",
		EmailFrom:     "bookings@studio.local",
		EmailEndpoint: srv.URL,
		NotifyTimeout: time.Second,
	}, zerolog.Nop())

	err := s.SendStatusNotification(context.Background(), sampleNotification(model.BookingStatusCancelled))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSendStatusNotificationDisabledWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewEmailSender(config.Config{
		EmailFrom:     "bookings@studio.local",
		EmailEndpoint: srv.URL,
		NotifyTimeout: time.Second,
	}, zerolog.Nop())

	err := s.SendStatusNotification(context.Background(), sampleNotification(model.BookingStatusConfirmed))
	require.NoError(t, err)
	assert.False(t, called)
}
