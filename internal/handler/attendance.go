package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// AttendanceHandler lets admins mark whether the member behind a
// booking showed up. The activity kind is not sent by the client; it
// is inferred from the activity id prefix.
type AttendanceHandler struct {
	Attendance *repository.AttendanceRepo
	Bookings   *repository.BookingRepo
	Log        zerolog.Logger
}

func NewAttendanceHandler(att *repository.AttendanceRepo, bookings *repository.BookingRepo, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		Attendance: att,
		Bookings:   bookings,
		Log:        log.With().Str("component", "attendance").Logger(),
	}
}

type markAttendanceReq struct {
	BookingID string `json:"bookingId"`
	Attended  bool   `json:"attended"`
}

// Mark handles POST /v1/admin/attendance. The activity is taken from
// the booking itself, so the caller cannot mark attendance against
// an activity the booking does not reference.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.BookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookingId is required"})
	}

	b, err := h.Bookings.GetByID(c.Request().Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		h.Log.Error().Err(err).Str("booking_id", req.BookingID).Msg("loading booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark attendance"})
	}
	activityID := ""
	switch {
	case b.ClassID != nil:
		activityID = *b.ClassID
	case b.EventID != nil:
		activityID = *b.EventID
	default:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking references no activity"})
	}

	a := &model.Attendance{
		ID:         utils.NewID("attendance"),
		BookingID:  b.ID,
		ActivityID: activityID,
		Attended:   req.Attended,
	}
	if err := h.Attendance.Mark(c.Request().Context(), a); err != nil {
		if errors.Is(err, repository.ErrUnknownActivityKind) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown activity kind"})
		}
		h.Log.Error().Err(err).Str("booking_id", b.ID).Msg("marking attendance failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark attendance"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

// ListByActivity handles GET /v1/admin/attendance?activityId=...
func (h *AttendanceHandler) ListByActivity(c echo.Context) error {
	activityID := c.QueryParam("activityId")
	if activityID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activityId is required"})
	}
	items, err := h.Attendance.ListByActivity(c.Request().Context(), activityID)
	if err != nil {
		h.Log.Error().Err(err).Str("activity_id", activityID).Msg("listing attendance failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load attendance"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
