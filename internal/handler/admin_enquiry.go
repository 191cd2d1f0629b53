package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pulsefit/studio-booking/internal/repository"
)

// AdminEnquiryHandler lets admins review and resolve public contact
// requests.
type AdminEnquiryHandler struct {
	Enquiries *repository.EnquiryRepo
	Log       zerolog.Logger
}

func NewAdminEnquiryHandler(enquiries *repository.EnquiryRepo, log zerolog.Logger) *AdminEnquiryHandler {
	return &AdminEnquiryHandler{
		Enquiries: enquiries,
		Log:       log.With().Str("component", "admin_enquiry").Logger(),
	}
}

// List handles GET /v1/admin/enquiries.
func (h *AdminEnquiryHandler) List(c echo.Context) error {
	items, err := h.Enquiries.ListAll(c.Request().Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("listing enquiries failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load enquiries"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Resolve handles PUT /v1/admin/enquiries/:id/resolve. Resolving an
// already-resolved enquiry is a no-op success.
func (h *AdminEnquiryHandler) Resolve(c echo.Context) error {
	id := c.Param("id")
	if err := h.Enquiries.Resolve(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "enquiry not found"})
		}
		h.Log.Error().Err(err).Str("enquiry_id", id).Msg("resolving enquiry failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to resolve enquiry"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "enquiry resolved"})
}
