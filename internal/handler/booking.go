package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/metrics"
	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// BookingStore is the persistence surface the member-facing booking
// endpoints need. *repository.BookingRepo satisfies it; tests plug
// in fakes.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking, addonIDs []string) error
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	GetByIDForUser(ctx context.Context, bookingID, userID string) (*repository.BookingDetail, error)
}

// BookingHandler serves the member-facing booking endpoints. JWT
// authentication and role checks happen in middleware; every method
// here can rely on c.Get("user_id") being populated.
type BookingHandler struct {
	Bookings BookingStore
	Log      zerolog.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(store BookingStore, log zerolog.Logger) *BookingHandler {
	if store == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: store, Log: log.With().Str("component", "bookings").Logger()}
}

type createBookingReq struct {
	ClassID    *string  `json:"classId"`
	EventID    *string  `json:"eventId"`
	PackID     *string  `json:"packId"`
	ScheduleID *string  `json:"scheduleId"`
	PaymentID  string   `json:"paymentId"`
	AddonIDs   []string `json:"addonIds"`
}

// Create handles POST /v1/bookings. Validation runs strictly before
// any write: activity reference first (missing, then ambiguous),
// then the payment reference. Existence of the referenced class,
// event, pack, schedule and add-ons is not pre-checked; foreign keys
// are the backstop and any violation surfaces as a generic creation
// failure. The spot reservation, the booking row and its add-on
// rows commit atomically, so a capacity rejection or add-on failure
// leaves nothing behind.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hasClass := req.ClassID != nil && *req.ClassID != ""
	hasEvent := req.EventID != nil && *req.EventID != ""
	if !hasClass && !hasEvent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "classId or eventId is required"})
	}
	if hasClass && hasEvent {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide exactly one of classId or eventId"})
	}
	if req.PaymentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paymentId is required"})
	}

	addonIDs := dedupIDs(req.AddonIDs)
	b := &model.Booking{
		ID:        utils.NewID("booking"),
		UserID:    userID,
		PaymentID: req.PaymentID,
		Status:    model.BookingStatusPending,
	}
	if hasClass {
		b.ClassID = req.ClassID
	} else {
		b.EventID = req.EventID
	}
	if req.PackID != nil && *req.PackID != "" {
		b.PackID = req.PackID
	}
	if req.ScheduleID != nil && *req.ScheduleID != "" {
		b.ScheduleID = req.ScheduleID
	}

	if err := h.Bookings.Create(c.Request().Context(), b, addonIDs); err != nil {
		if errors.Is(err, repository.ErrCapacityFull) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "no spots available"})
		}
		h.Log.Error().Err(err).Str("user_id", userID).Msg("booking creation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	metrics.IncBookingCreated()
	h.Log.Info().Str("booking_id", b.ID).Str("user_id", userID).Int("addons", len(addonIDs)).Msg("booking created")
	return c.JSON(http.StatusCreated, echo.Map{
		"id":             b.ID,
		"booking":        b,
		"addonsAttached": len(addonIDs),
	})
}

// ListMine handles GET /v1/bookings/me and returns every booking
// owned by the caller.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Str("user_id", userID).Msg("listing bookings failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": len(items),
	})
}

// GetMine handles GET /v1/bookings/me/:id. A booking that exists
// but belongs to another user produces exactly the same 404 as a
// booking that does not exist, so booking ids cannot be probed.
func (h *BookingHandler) GetMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID := c.Param("id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	det, err := h.Bookings.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		h.Log.Error().Err(err).Str("booking_id", bookingID).Msg("fetching booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}
