package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pulsefit/studio-booking/internal/handler"
	"github.com/pulsefit/studio-booking/internal/middleware"
	"github.com/pulsefit/studio-booking/internal/model"
)

// AdminHandlers bundles the admin-side handlers so RegisterAdmin
// does not grow a parameter per entity.
type AdminHandlers struct {
	Bookings   *handler.AdminBookingHandler
	Classes    *handler.AdminClassHandler
	Events     *handler.AdminEventHandler
	Catalog    *handler.AdminCatalogHandler
	Enquiries  *handler.AdminEnquiryHandler
	Attendance *handler.AttendanceHandler
}

// RegisterAdmin registers every admin endpoint under /v1 behind JWT
// auth and the ADMIN role.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	// Booking lifecycle.
	g.GET("/bookings", h.Bookings.ListAll)
	g.PUT("/bookings/:id/confirm", h.Bookings.Confirm)
	g.PUT("/bookings/:id/cancel", h.Bookings.Cancel)

	// Classes and their weekly schedules.
	g.POST("/admin/classes", h.Classes.Create)
	g.PUT("/admin/classes/:id", h.Classes.Update)
	g.DELETE("/admin/classes/:id", h.Classes.Deactivate)
	g.POST("/admin/classes/:id/schedules", h.Classes.CreateSchedule)
	g.DELETE("/admin/schedules/:id", h.Classes.DeleteSchedule)

	// Events.
	g.POST("/admin/events", h.Events.Create)
	g.PUT("/admin/events/:id", h.Events.Update)
	g.DELETE("/admin/events/:id", h.Events.Deactivate)

	// Packs, add-ons, trainers.
	g.POST("/admin/packs", h.Catalog.CreatePack)
	g.PUT("/admin/packs/:id", h.Catalog.UpdatePack)
	g.DELETE("/admin/packs/:id", h.Catalog.DeactivatePack)
	g.POST("/admin/addons", h.Catalog.CreateAddon)
	g.GET("/admin/addons", h.Catalog.ListAddons)
	g.PUT("/admin/addons/:id/active", h.Catalog.SetAddonActive)
	g.POST("/admin/trainers", h.Catalog.CreateTrainer)
	g.PUT("/admin/trainers/:id", h.Catalog.UpdateTrainer)

	// Enquiries and attendance.
	g.GET("/admin/enquiries", h.Enquiries.List)
	g.PUT("/admin/enquiries/:id/resolve", h.Enquiries.Resolve)
	g.POST("/admin/attendance", h.Attendance.Mark)
	g.GET("/admin/attendance", h.Attendance.ListByActivity)
}
