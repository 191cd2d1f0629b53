package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/cache"
	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// AdminEventHandler serves the admin CRUD surface for one-off events.
type AdminEventHandler struct {
	Events *repository.EventRepo
	Cache  *cache.Store
	Log    zerolog.Logger
}

func NewAdminEventHandler(events *repository.EventRepo, store *cache.Store, log zerolog.Logger) *AdminEventHandler {
	return &AdminEventHandler{
		Events: events,
		Cache:  store,
		Log:    log.With().Str("component", "admin_event").Logger(),
	}
}

type eventReq struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	PriceCents  uint32    `json:"priceCents"`
	MaxSpots    uint32    `json:"maxSpots"`
	IsActive    *bool     `json:"isActive"`
}

func (req *eventReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.MaxSpots == 0 {
		return "maxSpots must be positive"
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return "startsAt and endsAt are required"
	}
	if !req.EndsAt.After(req.StartsAt) {
		return "endsAt must be after startsAt"
	}
	return ""
}

// Create handles POST /v1/admin/events.
func (h *AdminEventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	e := &model.Event{
		ID:          utils.NewID("event"),
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		PriceCents:  req.PriceCents,
		MaxSpots:    req.MaxSpots,
		IsActive:    active,
	}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		h.Log.Error().Err(err).Msg("creating event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "events")
	return c.JSON(http.StatusCreated, echo.Map{"item": e})
}

// Update handles PUT /v1/admin/events/:id.
func (h *AdminEventHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	e := &model.Event{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		PriceCents:  req.PriceCents,
		MaxSpots:    req.MaxSpots,
		IsActive:    active,
	}
	if err := h.Events.Update(c.Request().Context(), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Str("event_id", id).Msg("updating event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "events")
	return c.JSON(http.StatusOK, echo.Map{"message": "event updated"})
}

// Deactivate handles DELETE /v1/admin/events/:id.
func (h *AdminEventHandler) Deactivate(c echo.Context) error {
	id := c.Param("id")
	if err := h.Events.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Str("event_id", id).Msg("deactivating event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate event"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "events")
	return c.JSON(http.StatusOK, echo.Map{"message": "event deactivated"})
}
