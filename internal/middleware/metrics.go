package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/pulsefit/studio-booking/internal/metrics"
)

// Metrics counts every handled request by route pattern. Registered
// early so even rejected requests are counted.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Request().Method + " " + c.Path()
			metrics.IncHTTP(route)
			return next(c)
		}
	}
}
