package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/handler"
)

// RegisterClient wires the connection-token endpoints under
// /api/client. There is no JWT on this side; the token in the path is
// the credential. cacheMW is applied only to the connection lookup,
// the one response on this side that never changes once it exists.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler, cacheMW echo.MiddlewareFunc) {
	g := e.Group("/api/client")

	g.GET("/connection/:connectionId", h.ResolveConnection, cacheMW)

	g.GET("/:connectionId/timeslots", h.ListTimeslots)
	g.GET("/:connectionId/requests", h.ListRequests)
	g.GET("/:connectionId/appointments", h.ListAppointments)

	g.POST("/requests", h.SubmitRequest)
	g.PUT("/requests/:id", h.UpdatePreference)
	g.DELETE("/requests/:id", h.RetractRequest)
}
