package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/handler"
)

// RegisterRoutes registers the routes that carry no authentication at
// all. Currently that is only the health check, used by load balancers
// to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}
