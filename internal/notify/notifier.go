// Package notify renders booking status emails and dispatches them
// through an HTTP email provider. Dispatch is strictly best-effort:
// the booking transition that triggers it has already been
// persisted, so every failure here is logged and swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/config"
	"github.com/pulsefit/studio-booking/internal/model"
)

// StatusNotification carries everything needed to render one status
// email. DateTime is the event start when known, otherwise the time
// of the transition.
type StatusNotification struct {
	To       string
	Name     string
	ItemType string
	ItemName string
	Status   string
	DateTime time.Time
}

// Sender dispatches a rendered status notification.
type Sender interface {
	SendStatusNotification(ctx context.Context, n StatusNotification) error
}

// EmailSender posts notification emails to a Resend-compatible HTTP
// API. An empty API key disables sending entirely, which keeps
// local development quiet.
type EmailSender struct {
	apiKey   string
	from     string
	endpoint string
	httpc    *http.Client
	log      zerolog.Logger
}

// NewEmailSender builds an EmailSender from config.
func NewEmailSender(cfg config.Config, log zerolog.Logger) *EmailSender {
	return &EmailSender{
		apiKey:   cfg.EmailAPIKey,
		from:     cfg.EmailFrom,
		endpoint: cfg.EmailEndpoint,
		httpc:    &http.Client{Timeout: cfg.NotifyTimeout},
		log:      log.With().Str("component", "notify").Logger(),
	}
}

// Render produces the subject and body for a notification.
func Render(n StatusNotification) (subject, body string) {
	when := n.DateTime.UTC().Format("Mon, 2 Jan 2006 15:04 MST")
	switch n.Status {
	case model.BookingStatusConfirmed:
		subject = fmt.Sprintf("Your %s booking is confirmed", n.ItemType)
		body = fmt.Sprintf("Hi %s,\n\nYour booking for %s (%s) on %s is confirmed. See you at the studio!\n",
			n.Name, n.ItemName, n.ItemType, when)
	case model.BookingStatusCancelled:
		subject = fmt.Sprintf("Your %s booking has been cancelled", n.ItemType)
		body = fmt.Sprintf("Hi %s,\n\nYour booking for %s (%s) on %s has been cancelled. Contact us if this is unexpected.\n",
			n.Name, n.ItemName, n.ItemType, when)
	default:
		subject = fmt.Sprintf("Update on your %s booking", n.ItemType)
		body = fmt.Sprintf("Hi %s,\n\nYour booking for %s (%s) on %s is now %s.\n",
			n.Name, n.ItemName, n.ItemType, when, n.Status)
	}
	return subject, body
}

// SendStatusNotification renders and posts one email. The provided
// context bounds the whole dispatch; callers pass a short deadline.
func (s *EmailSender) SendStatusNotification(ctx context.Context, n StatusNotification) error {
	if s.apiKey == "" {
		s.log.Debug().Str("to", n.To).Str("status", n.Status).Msg("email disabled, skipping dispatch")
		return nil
	}
	subject, body := Render(n)
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.from,
		"to":      []string{n.To},
		"subject": subject,
		"text":    body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
