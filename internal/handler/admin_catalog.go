package handler

// Admin CRUD for the smaller catalog entities: packs, add-ons and
// trainers. Same pattern throughout: validate, write, drop the
// matching cache key family.

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

type AdminCatalogHandler struct {
	Packs    *repository.PackRepo
	Addons   *repository.AddonRepo
	Trainers *repository.TrainerRepo
	Cache    *cache.Store
	Log      zerolog.Logger
}

func NewAdminCatalogHandler(packs *repository.PackRepo, addons *repository.AddonRepo, trainers *repository.TrainerRepo, store *cache.Store, log zerolog.Logger) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		Packs:    packs,
		Addons:   addons,
		Trainers: trainers,
		Cache:    store,
		Log:      log.With().Str("component", "admin_catalog").Logger(),
	}
}

// ----- packs -----

type packReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Sessions    uint32 `json:"sessions"`
	PriceCents  uint32 `json:"priceCents"`
	Kind        string `json:"kind"`
	IsActive    *bool  `json:"isActive"`
}

func (req *packReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Sessions == 0 {
		return "sessions must be positive"
	}
	if req.Kind != model.PackKindSolo && req.Kind != model.PackKindGroup {
		return "kind must be solo or group"
	}
	return ""
}

// CreatePack handles POST /v1/admin/packs.
func (h *AdminCatalogHandler) CreatePack(c echo.Context) error {
	var req packReq
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
	p := &model.Pack{
		ID:          utils.NewID("pack"),
		Name:        req.Name,
		Description: req.Description,
		Sessions:    req.Sessions,
		PriceCents:  req.PriceCents,
		Kind:        req.Kind,
		IsActive:    active,
	}
	if err := h.Packs.Create(c.Request().Context(), p); err != nil {
		h.Log.Error().Err(err).Msg("creating pack failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create pack"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "packs")
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// UpdatePack handles PUT /v1/admin/packs/:id.
func (h *AdminCatalogHandler) UpdatePack(c echo.Context) error {
	id := c.Param("id")
	var req packReq
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
	p := &model.Pack{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Sessions:    req.Sessions,
		PriceCents:  req.PriceCents,
		Kind:        req.Kind,
		IsActive:    active,
	}
	if err := h.Packs.Update(c.Request().Context(), p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pack not found"})
		}
		h.Log.Error().Err(err).Str("pack_id", id).Msg("updating pack failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update pack"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "packs")
	return c.JSON(http.StatusOK, echo.Map{"message": "pack updated"})
}

// DeactivatePack handles DELETE /v1/admin/packs/:id.
func (h *AdminCatalogHandler) DeactivatePack(c echo.Context) error {
	id := c.Param("id")
	if err := h.Packs.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pack not found"})
		}
		h.Log.Error().Err(err).Str("pack_id", id).Msg("deactivating pack failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to deactivate pack"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "packs")
	return c.JSON(http.StatusOK, echo.Map{"message": "pack deactivated"})
}

// ----- add-ons -----

type addonReq struct {
	Name       string `json:"name"`
	PriceCents uint32 `json:"priceCents"`
	IsActive   *bool  `json:"isActive"`
}

// CreateAddon handles POST /v1/admin/addons.
func (h *AdminCatalogHandler) CreateAddon(c echo.Context) error {
	var req addonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	a := &model.Addon{
		ID:         utils.NewID("addon"),
		Name:       req.Name,
		PriceCents: req.PriceCents,
		IsActive:   active,
	}
	if err := h.Addons.Create(c.Request().Context(), a); err != nil {
		h.Log.Error().Err(err).Msg("creating addon failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create addon"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

// ListAddons handles GET /v1/admin/addons. Includes inactive rows so
// admins can re-enable them.
func (h *AdminCatalogHandler) ListAddons(c echo.Context) error {
	items, err := h.Addons.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("listing addons failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load addons"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

type addonActiveReq struct {
	IsActive bool `json:"isActive"`
}

// SetAddonActive handles PUT /v1/admin/addons/:id/active.
func (h *AdminCatalogHandler) SetAddonActive(c echo.Context) error {
	id := c.Param("id")
	var req addonActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Addons.SetActive(c.Request().Context(), id, req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "addon not found"})
		}
		h.Log.Error().Err(err).Str("addon_id", id).Msg("toggling addon failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update addon"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "addon updated"})
}

// ----- trainers -----

type trainerReq struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Specialty string `json:"specialty"`
	IsActive  *bool  `json:"isActive"`
}

// CreateTrainer handles POST /v1/admin/trainers.
func (h *AdminCatalogHandler) CreateTrainer(c echo.Context) error {
	var req trainerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := &model.Trainer{
		ID:        utils.NewID("trainer"),
		Name:      req.Name,
		Bio:       req.Bio,
		Specialty: req.Specialty,
		IsActive:  active,
	}
	if err := h.Trainers.Create(c.Request().Context(), t); err != nil {
		h.Log.Error().Err(err).Msg("creating trainer failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create trainer"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "trainers")
	return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

// UpdateTrainer handles PUT /v1/admin/trainers/:id.
func (h *AdminCatalogHandler) UpdateTrainer(c echo.Context) error {
	id := c.Param("id")
	var req trainerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := &model.Trainer{
		ID:        id,
		Name:      req.Name,
		Bio:       req.Bio,
		Specialty: req.Specialty,
		IsActive:  active,
	}
	if err := h.Trainers.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trainer not found"})
		}
		h.Log.Error().Err(err).Str("trainer_id", id).Msg("updating trainer failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update trainer"})
	}
	h.Cache.InvalidateByPattern(c.Request().Context(), "trainers")
	return c.JSON(http.StatusOK, echo.Map{"message": "trainer updated"})
}
