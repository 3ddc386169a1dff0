package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/handler"
	"github.com/hosterly/booking-api/internal/middleware"
)

// RegisterHoster wires the hoster side of the API under /api/hoster.
// Account endpoints (register, login, refresh, logout-by-refresh-token)
// are open; everything else requires a valid JWT with the HOSTER role.
func RegisterHoster(e *echo.Echo, a *handler.AuthHandler, h *handler.HosterHandler, jwtSecret string) {
	open := e.Group("/api/hoster")
	open.POST("/register", a.Register)
	open.POST("/login", a.Login)
	open.POST("/refresh", a.Refresh)
	// Logout here ends the single session named by the refresh token in
	// the body; no access token needed so expired sessions can still be
	// cleaned up.
	open.POST("/logout", a.Logout)

	g := e.Group(
		"/api/hoster",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("HOSTER"),
	)
	g.GET("/me", a.Me)
	// Same handler as the open logout: with no refresh token in the
	// body it revokes every session of the authenticated hoster.
	g.POST("/logout/all", a.Logout)

	// ---- Availability ----
	g.POST("/timeslots", h.PublishTimeslot)
	g.GET("/:hosterId/timeslots", h.ListTimeslots)
	g.DELETE("/timeslots/:id", h.WithdrawTimeslot)
	g.GET("/timeslots/:id/requests", h.ListTimeslotRequests)

	// ---- Clients & connections ----
	g.POST("/clients", h.CreateClient)
	g.GET("/clients/search", h.SearchClients)
	g.POST("/clients/connect", h.Connect)
	g.GET("/:hosterId/clients", h.ListClients)

	// ---- Booking decisions ----
	g.POST("/requests/:id/validate", h.ValidateRequest)
	g.POST("/requests/:id/unvalidate", h.UnvalidateRequest)

	// ---- Appointments ----
	g.GET("/:hosterId/appointments", h.ListAppointments)
}
