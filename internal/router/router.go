package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulsefit/studio-booking/internal/handler"
	"github.com/pulsefit/studio-booking/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication:
// the health check and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the auth endpoints. Register, login,
// refresh and logout live under /v1/auth without middleware; /v1/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// These are the cache-backed reads guests hit before signing up.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/classes", p.ListClasses)
	e.GET("/v1/classes/:id", p.GetClass)
	e.GET("/v1/classes/:id/schedules", p.ListClassSchedules)
	e.GET("/v1/events", p.ListEvents)
	e.GET("/v1/events/:id", p.GetEvent)
	e.GET("/v1/packs", p.ListPacks)
	e.GET("/v1/trainers", p.ListTrainers)
	e.POST("/v1/enquiries", p.CreateEnquiry)
}
