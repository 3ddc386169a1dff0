package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/repository"
)

// ClientHandler serves the connection-token endpoints. No JWT here:
// presenting a valid token is the whole client-side credential, and an
// unknown token is indistinguishable from a missing resource (404).
type ClientHandler struct {
	Connections  *repository.ConnectionRepo
	Timeslots    *repository.TimeslotRepo
	Requests     *repository.RequestRepo
	Appointments *repository.AppointmentRepo
	Engine       BookingEngine
}

// NewClientHandler constructs a ClientHandler and panics on a nil dependency.
func NewClientHandler(cn *repository.ConnectionRepo, ts *repository.TimeslotRepo, rq *repository.RequestRepo, ap *repository.AppointmentRepo, eng BookingEngine) *ClientHandler {
	if cn == nil || ts == nil || rq == nil || ap == nil || eng == nil {
		panic("nil dependency passed to NewClientHandler")
	}
	return &ClientHandler{Connections: cn, Timeslots: ts, Requests: rq, Appointments: ap, Engine: eng}
}

// connectionParam pulls and resolves the :connectionId path parameter.
// The written 404 response doubles as the returned error on a miss.
func (h *ClientHandler) connectionParam(c echo.Context) (repository.ConnectionInfo, error) {
	token := strings.TrimSpace(c.Param("connectionId"))
	if token == "" {
		return repository.ConnectionInfo{}, c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid connectionId"})
	}
	info, err := h.Connections.Resolve(c.Request().Context(), token)
	if err != nil {
		if err == sql.ErrNoRows {
			return repository.ConnectionInfo{}, c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "connection not found"})
		}
		return repository.ConnectionInfo{}, c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return info, nil
}

// ResolveConnection handles GET /api/client/connection/:connectionId.
// The mapping never changes once created, which is what makes this
// endpoint safe to cache.
func (h *ClientHandler) ResolveConnection(c echo.Context) error {
	info, err := h.connectionParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "connection": info})
}

// ListTimeslots handles GET /api/client/:connectionId/timeslots and
// returns the connected hoster's availability ordered by start.
func (h *ClientHandler) ListTimeslots(c echo.Context) error {
	info, err := h.connectionParam(c)
	if err != nil {
		return err
	}
	items, err := h.Timeslots.ListByConnection(c.Request().Context(), info.ConnectionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "timeslots": items})
}

// SubmitRequest handles POST /api/client/requests. The requested
// interval must fit inside the target timeslot and the preference must
// be in 1..5; both are checked here rather than trusted from the form.
func (h *ClientHandler) SubmitRequest(c echo.Context) error {
	var body struct {
		ConnectionID string    `json:"connection_id"`
		TimeslotID   uint64    `json:"timeslot_id"`
		StartTime    time.Time `json:"start_time"`
		EndTime      time.Time `json:"end_time"`
		Preference   int       `json:"preference"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	token := strings.TrimSpace(body.ConnectionID)
	if token == "" || body.TimeslotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "connection_id and timeslot_id are required"})
	}
	if body.Preference < 1 || body.Preference > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "preference must be between 1 and 5"})
	}
	if body.StartTime.IsZero() || body.EndTime.IsZero() || !body.EndTime.After(body.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "end_time must be after start_time"})
	}

	ctx := c.Request().Context()
	info, err := h.Connections.Resolve(ctx, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "connection not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}

	ts, err := h.Timeslots.GetByID(ctx, body.TimeslotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "timeslot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	if ts.HosterID != info.HosterID {
		// The timeslot exists but belongs to a hoster this token is not
		// connected to; do not reveal the difference.
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "timeslot not found"})
	}
	if body.StartTime.Before(ts.StartTime) || body.EndTime.After(ts.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "requested interval must lie within the timeslot"})
	}

	req, err := h.Requests.Create(ctx, body.TimeslotID, info.ConnectionID, body.StartTime, body.EndTime, body.Preference)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "request": req})
}

// UpdatePreference handles PUT /api/client/requests/:id. The overwrite
// is unconditional; a validated request keeps its appointment and only
// changes its displayed rank.
func (h *ClientHandler) UpdatePreference(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var body struct {
		Preference int `json:"preference"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	if body.Preference < 1 || body.Preference > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "preference must be between 1 and 5"})
	}

	req, err := h.Requests.UpdatePreference(c.Request().Context(), id, body.Preference)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "request": req})
}

// RetractRequest handles DELETE /api/client/requests/:id via the
// engine, which notifies the hoster after the delete commits.
func (h *ClientHandler) RetractRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.Retract(c.Request().Context(), id); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ListRequests handles GET /api/client/:connectionId/requests.
func (h *ClientHandler) ListRequests(c echo.Context) error {
	info, err := h.connectionParam(c)
	if err != nil {
		return err
	}
	items, err := h.Requests.ListByConnection(c.Request().Context(), info.ConnectionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "requests": items})
}

// ListAppointments handles GET /api/client/:connectionId/appointments.
func (h *ClientHandler) ListAppointments(c echo.Context) error {
	info, err := h.connectionParam(c)
	if err != nil {
		return err
	}
	items, err := h.Appointments.ListByConnection(c.Request().Context(), info.ConnectionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointments": items})
}
