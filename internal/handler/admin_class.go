package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/cache"
	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// AdminClassHandler serves the admin CRUD surface for classes and
// their weekly schedules. Every mutation drops the cached class
// views so public reads pick up the change on the next request.
type AdminClassHandler struct {
	Classes   *repository.ClassRepo
	Schedules *repository.ScheduleRepo
	Cache     *cache.Store
	Log       zerolog.Logger
}

func NewAdminClassHandler(classes *repository.ClassRepo, schedules *repository.ScheduleRepo, store *cache.Store, log zerolog.Logger) *AdminClassHandler {
	return &AdminClassHandler{
		Classes:   classes,
		Schedules: schedules,
		Cache:     store,
		Log:       log.With().Str("component", "admin_class").Logger(),
	}
}

type classReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TrainerID   *string `json:"trainerId"`
	PriceCents  uint32  `json:"priceCents"`
	MaxSpots    uint32  `json:"maxSpots"`
	IsActive    *bool   `json:"isActive"`
}

// Create handles POST /v1/admin/classes.
func (h *AdminClassHandler) Create(c echo.Context) error {
	var req classReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.MaxSpots == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maxSpots must be positive"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cl := &model.Class{
		ID:          utils.NewID("class"),
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		PriceCents:  req.PriceCents,
		MaxSpots:    req.MaxSpots,
		IsActive:    active,
	}
	if err := h.Classes.Create(c.Request().Context(), cl); err != nil {
		h.Log.Error().Err(err).Msg("creating class failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create class"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "classes")
	return c.JSON(http.StatusCreated, echo.Map{"item": cl})
}

// Update handles PUT /v1/admin/classes/:id. The request replaces the
// editable fields wholesale; booked_spots is never touched here.
func (h *AdminClassHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req classReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.MaxSpots == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maxSpots must be positive"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cl := &model.Class{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		PriceCents:  req.PriceCents,
		MaxSpots:    req.MaxSpots,
		IsActive:    active,
	}
	if err := h.Classes.Update(c.Request().Context(), cl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
		}
		h.Log.Error().Err(err).Str("class_id", id).Msg("updating class failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update class"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "classes")
	return c.JSON(http.StatusOK, echo.Map{"message": "class updated"})
}

// Deactivate handles DELETE /v1/admin/classes/:id. Classes are
// soft-deleted because bookings reference them.
func (h *AdminClassHandler) Deactivate(c echo.Context) error {
	id := c.Param("id")
	if err := h.Classes.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
		}
		h.Log.Error().Err(err).Str("class_id", id).Msg("deactivating class failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate class"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "classes")
	return c.JSON(http.StatusOK, echo.Map{"message": "class deactivated"})
}

type scheduleReq struct {
	Weekday     uint8  `json:"weekday"`
	StartTime   string `json:"startTime"`
	DurationMin uint32 `json:"durationMin"`
}

// CreateSchedule handles POST /v1/admin/classes/:id/schedules.
func (h *AdminClassHandler) CreateSchedule(c echo.Context) error {
	classID := c.Param("id")
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Weekday > 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0-6"})
	}
	if req.StartTime == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime and durationMin are required"})
	}
	// The class must exist; a schedule on a missing class is a 404,
	// not an FK error.
	if _, err := h.Classes.GetByID(c.Request().Context(), classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
		}
		h.Log.Error().Err(err).Str("class_id", classID).Msg("loading class failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
	}
	s := &model.Schedule{
		ID:          utils.NewID("schedule"),
		ClassID:     classID,
		Weekday:     req.Weekday,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
	}
	if err := h.Schedules.Create(c.Request().Context(), s); err != nil {
		h.Log.Error().Err(err).Str("class_id", classID).Msg("creating schedule failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "classes")
	return c.JSON(http.StatusCreated, echo.Map{"item": s})
}

// DeleteSchedule handles DELETE /v1/admin/schedules/:id.
func (h *AdminClassHandler) DeleteSchedule(c echo.Context) error {
	id := c.Param("id")
	if err := h.Schedules.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule is referenced by bookings"})
		}
		h.Log.Error().Err(err).Str("schedule_id", id).Msg("deleting schedule failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete schedule"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "classes")
	return c.JSON(http.StatusOK, echo.Map{"message": "schedule deleted"})
}
