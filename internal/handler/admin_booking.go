package handler

// This file defines the admin-facing booking endpoints: listing all
// bookings and driving the status lifecycle. Transitions write the
// target status unconditionally (last write wins) and then fire the
// notification email and a broker event, both best-effort: neither
// can roll back or fail the transition that already committed.

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/metrics"
	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/notify"
	"github.com/pulsefit/studio-booking/internal/queue"
	"github.com/pulsefit/studio-booking/internal/repository"
)

// AdminBookingStore is the persistence surface of the admin booking
// endpoints. *repository.BookingRepo satisfies it.
type AdminBookingStore interface {
	ListAll(ctx context.Context, status string) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Transition(ctx context.Context, b *model.Booking, target string) error
}

// UserGetter resolves a booking's owner. *repository.UserRepo
// satisfies it.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// ClassGetter and EventGetter resolve the booked activity for the
// notification email. *repository.ClassRepo / *repository.EventRepo
// satisfy them.
type ClassGetter interface {
	GetByID(ctx context.Context, id string) (*model.Class, error)
}
type EventGetter interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// StatusPublisher emits a booking status event to the broker.
type StatusPublisher interface {
	PublishBookingStatus(ctx context.Context, ev queue.BookingStatusEvent) error
}

// AdminBookingHandler groups the dependencies of the admin booking
// endpoints. Notifier and Publisher may be nil-like no-ops in tests
// but must be non-nil.
type AdminBookingHandler struct {
	Bookings      AdminBookingStore
	Users         UserGetter
	Classes       ClassGetter
	Events        EventGetter
	Notifier      notify.Sender
	Publisher     StatusPublisher
	NotifyTimeout time.Duration
	Log           zerolog.Logger
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(
	bookings AdminBookingStore,
	users UserGetter,
	classes ClassGetter,
	events EventGetter,
	notifier notify.Sender,
	publisher StatusPublisher,
	notifyTimeout time.Duration,
	log zerolog.Logger,
) *AdminBookingHandler {
	if bookings == nil || users == nil || classes == nil || events == nil {
		panic("nil dependency passed to NewAdminBookingHandler")
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 3 * time.Second
	}
	return &AdminBookingHandler{
		Bookings:      bookings,
		Users:         users,
		Classes:       classes,
		Events:        events,
		Notifier:      notifier,
		Publisher:     publisher,
		NotifyTimeout: notifyTimeout,
		Log:           log.With().Str("component", "admin_bookings").Logger(),
	}
}

// ListAll handles GET /v1/bookings?status=. The filter is an exact
// status match; with no filter every booking is returned. No
// pagination.
func (h *AdminBookingHandler) ListAll(c echo.Context) error {
	status := c.QueryParam("status")
	items, err := h.Bookings.ListAll(c.Request().Context(), status)
	if err != nil {
		h.Log.Error().Err(err).Msg("listing bookings failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

// Confirm handles PUT /v1/bookings/:id/confirm.
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.BookingStatusConfirmed)
}

// Cancel handles PUT /v1/bookings/:id/cancel.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.BookingStatusCancelled)
}

func (h *AdminBookingHandler) transition(c echo.Context, target string) error {
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		h.Log.Error().Err(err).Str("booking_id", bookingID).Msg("loading booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}

	// Orphaned bookings (owner row deleted out-of-band) cannot be
	// notified, so the transition is refused outright.
	owner, err := h.Users.GetByID(ctx, b.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found for this booking"})
		}
		h.Log.Error().Err(err).Str("booking_id", bookingID).Msg("loading booking owner failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking owner"})
	}

	if err := h.Bookings.Transition(ctx, b, target); err != nil {
		// Re-confirming a cancelled booking reserves a spot again and
		// can lose the race for the last one.
		if errors.Is(err, repository.ErrCapacityFull) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no spots available"})
		}
		h.Log.Error().Err(err).Str("booking_id", bookingID).Str("target", target).Msg("transition failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	metrics.IncTransition(target)

	itemType, itemName, dateTime := h.resolveItem(ctx, b)
	h.dispatch(owner, itemType, itemName, target, dateTime, b)

	msg := "Booking confirmed and notification email sent"
	if target == model.BookingStatusCancelled {
		msg = "Booking cancelled and notification email sent"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// resolveItem looks up the booked activity for the notification.
// The email still goes out when the lookup fails; the item name
// falls back to a generic label and the date to "now", mirroring
// the placeholder used when an activity has no scheduled time.
func (h *AdminBookingHandler) resolveItem(ctx context.Context, b *model.Booking) (string, string, time.Time) {
	now := time.Now().UTC()
	if b.EventID != nil {
		ev, err := h.Events.GetByID(ctx, *b.EventID)
		if err != nil {
			h.Log.Warn().Err(err).Str("event_id", *b.EventID).Msg("event lookup for notification failed")
			return model.ActivityKindEvent, "your event", now
		}
		return model.ActivityKindEvent, ev.Name, ev.StartsAt
	}
	cl, err := h.Classes.GetByID(ctx, *b.ClassID)
	if err != nil {
		h.Log.Warn().Err(err).Str("class_id", *b.ClassID).Msg("class lookup for notification failed")
		return model.ActivityKindClass, "your class", now
	}
	// Classes recur weekly; there is no single start time to report.
	return model.ActivityKindClass, cl.Name, now
}

// dispatch fires the email and the broker event. Both run under a
// short deadline detached from the request context so a slow
// provider cannot stall the response, and both only log on failure.
func (h *AdminBookingHandler) dispatch(owner model.User, itemType, itemName, target string, dateTime time.Time, b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), h.NotifyTimeout)
	defer cancel()

	if h.Notifier != nil {
		n := notify.StatusNotification{
			To:       owner.Email,
			Name:     owner.FullName,
			ItemType: itemType,
			ItemName: itemName,
			Status:   target,
			DateTime: dateTime,
		}
		if err := h.Notifier.SendStatusNotification(ctx, n); err != nil {
			metrics.IncNotifyFailure()
			h.Log.Warn().Err(err).Str("booking_id", b.ID).Msg("notification dispatch failed")
		}
	}

	if h.Publisher != nil {
		ev := queue.BookingStatusEvent{
			BookingID: b.ID,
			UserID:    b.UserID,
			ItemType:  itemType,
			ItemName:  itemName,
			Status:    target,
			DateTime:  dateTime.Format(time.RFC3339),
			ChangedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publisher.PublishBookingStatus(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Str("booking_id", b.ID).Msg("status event publish failed")
		}
	}
}
