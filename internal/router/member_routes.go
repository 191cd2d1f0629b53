package router

import (
	"github.com/labstack/echo/v4"

	"github.com/pulsefit/studio-booking/internal/handler"
	"github.com/pulsefit/studio-booking/internal/middleware"
	"github.com/pulsefit/studio-booking/internal/model"
)

// RegisterBookings registers the member-facing booking endpoints.
// Every route requires a valid access token; both roles may book.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleMember, model.RoleAdmin))

	g.POST("/bookings", b.Create)
	g.GET("/bookings/me", b.ListMine)
	g.GET("/bookings/me/:id", b.GetMine)
}
