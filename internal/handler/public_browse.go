package handler

// Public browse endpoints. List and detail reads are served through
// the two-tier cache: the first request fills the cache, subsequent
// requests within the TTL never touch MySQL. Admin mutations
// invalidate the matching key family.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/cache"
	"github.com/pulsefit/studio-booking/internal/config"
	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// PublicHandler serves unauthenticated catalog reads and enquiry
// submission.
type PublicHandler struct {
	Cache     *cache.Store
	CacheCfg  config.CacheConfig
	Classes   *repository.ClassRepo
	Events    *repository.EventRepo
	Packs     *repository.PackRepo
	Trainers  *repository.TrainerRepo
	Schedules *repository.ScheduleRepo
	Enquiries *repository.EnquiryRepo
	Log       zerolog.Logger
}

// NewPublicHandler constructs a PublicHandler with the provided
// repositories. All dependencies must be non-nil.
func NewPublicHandler(
	store *cache.Store,
	cacheCfg config.CacheConfig,
	classes *repository.ClassRepo,
	events *repository.EventRepo,
	packs *repository.PackRepo,
	trainers *repository.TrainerRepo,
	schedules *repository.ScheduleRepo,
	enquiries *repository.EnquiryRepo,
	log zerolog.Logger,
) *PublicHandler {
	if store == nil || classes == nil || events == nil || packs == nil || trainers == nil || schedules == nil || enquiries == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{
		Cache:     store,
		CacheCfg:  cacheCfg,
		Classes:   classes,
		Events:    events,
		Packs:     packs,
		Trainers:  trainers,
		Schedules: schedules,
		Enquiries: enquiries,
		Log:       log.With().Str("component", "public").Logger(),
	}
}

// listPayload wraps list results so cached and uncached responses
// share one shape.
func listPayload(items interface{}, count int) ([]byte, error) {
	return json.Marshal(echo.Map{"items": items, "count": count})
}

// fetchCached reads through the cache, or straight from the source
// when caching is switched off.
func (h *PublicHandler) fetchCached(ctx context.Context, key string, ttl time.Duration, fetch cache.Fetch) ([]byte, error) {
	if !h.CacheCfg.Enabled {
		return fetch(ctx)
	}
	return h.Cache.GetOrFetch(ctx, key, ttl, fetch)
}

// ListClasses handles GET /v1/classes.
func (h *PublicHandler) ListClasses(c echo.Context) error {
	data, err := h.fetchCached(c.Request().Context(), "classes:list", h.CacheCfg.ClassesTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.Classes.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return listPayload(items, len(items))
		})
	if err != nil {
		h.Log.Error().Err(err).Msg("listing classes failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load classes"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// GetClass handles GET /v1/classes/:id.
func (h *PublicHandler) GetClass(c echo.Context) error {
	id := c.Param("id")
	data, err := h.fetchCached(c.Request().Context(), "classes:"+id, h.CacheCfg.ClassesTTL,
		func(ctx context.Context) ([]byte, error) {
			item, err := h.Classes.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return json.Marshal(echo.Map{"item": item})
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "class not found"})
		}
		h.Log.Error().Err(err).Str("class_id", id).Msg("fetching class failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load class"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// ListClassSchedules handles GET /v1/classes/:id/schedules.
func (h *PublicHandler) ListClassSchedules(c echo.Context) error {
	id := c.Param("id")
	data, err := h.fetchCached(c.Request().Context(), "classes:"+id+":schedules", h.CacheCfg.ClassesTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.Schedules.ListByClass(ctx, id)
			if err != nil {
				return nil, err
			}
			return listPayload(items, len(items))
		})
	if err != nil {
		h.Log.Error().Err(err).Str("class_id", id).Msg("listing schedules failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedules"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// ListEvents handles GET /v1/events.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	data, err := h.fetchCached(c.Request().Context(), "events:list", h.CacheCfg.EventsTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.Events.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return listPayload(items, len(items))
		})
	if err != nil {
		h.Log.Error().Err(err).Msg("listing events failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// GetEvent handles GET /v1/events/:id.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id := c.Param("id")
	data, err := h.fetchCached(c.Request().Context(), "events:"+id, h.CacheCfg.EventsTTL,
		func(ctx context.Context) ([]byte, error) {
			item, err := h.Events.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return json.Marshal(echo.Map{"item": item})
		})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Str("event_id", id).Msg("fetching event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// ListPacks handles GET /v1/packs.
func (h *PublicHandler) ListPacks(c echo.Context) error {
	data, err := h.fetchCached(c.Request().Context(), "packs:list", h.CacheCfg.PacksTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.Packs.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return listPayload(items, len(items))
		})
	if err != nil {
		h.Log.Error().Err(err).Msg("listing packs failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load packs"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

// ListTrainers handles GET /v1/trainers.
func (h *PublicHandler) ListTrainers(c echo.Context) error {
	data, err := h.fetchCached(c.Request().Context(), "trainers:list", h.CacheCfg.TrainersTTL,
		func(ctx context.Context) ([]byte, error) {
			items, err := h.Trainers.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return listPayload(items, len(items))
		})
	if err != nil {
		h.Log.Error().Err(err).Msg("listing trainers failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load trainers"})
	}
	return c.JSONBlob(http.StatusOK, data)
}

type createEnquiryReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateEnquiry handles POST /v1/enquiries.
func (h *PublicHandler) CreateEnquiry(c echo.Context) error {
	var req createEnquiryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and message are required"})
	}
	e := &model.Enquiry{
		ID:      utils.NewID("enquiry"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}
	if err := h.Enquiries.Create(c.Request().Context(), e); err != nil {
		h.Log.Error().Err(err).Msg("creating enquiry failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit enquiry"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": e})
}
