package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/engine"
)

// PublishTimeslot handles POST /api/hoster/timeslots. Overlap with the
// hoster's existing timeslots is allowed on purpose; only an inverted
// or empty interval is rejected.
func (h *HosterHandler) PublishTimeslot(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	var body struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	if body.StartTime.IsZero() || body.EndTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "start_time and end_time are required"})
	}
	if !body.EndTime.After(body.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "end_time must be after start_time"})
	}

	ts, err := h.Timeslots.Create(c.Request().Context(), hosterID, body.StartTime, body.EndTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "create timeslot failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "timeslot": ts})
}

// ListTimeslots handles GET /api/hoster/:hosterId/timeslots. The path
// id must match the authenticated hoster.
func (h *HosterHandler) ListTimeslots(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	pathHoster, err := pathID(c, "hosterId")
	if err != nil {
		return err
	}
	if pathHoster != hosterID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	}

	items, err := h.Timeslots.ListByHoster(c.Request().Context(), hosterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "timeslots": items})
}

// WithdrawTimeslot handles DELETE /api/hoster/timeslots/:id. The engine
// deletes the timeslot with everything hanging off it and notifies the
// cancelled appointments after the commit.
func (h *HosterHandler) WithdrawTimeslot(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.Withdraw(c.Request().Context(), id, hosterID); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ListTimeslotRequests handles GET /api/hoster/timeslots/:id/requests.
// Requests come back ordered for review: preference first, earlier
// submissions winning ties.
func (h *HosterHandler) ListTimeslotRequests(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	ts, err := h.Timeslots.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "timeslot not found"})
	}
	if ts.HosterID != hosterID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	}

	items, err := h.Requests.ListByTimeslot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	engine.OrderRequests(items)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "requests": items})
}

// ListAppointments handles GET /api/hoster/:hosterId/appointments. The
// path id must match the authenticated hoster.
func (h *HosterHandler) ListAppointments(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	pathHoster, err := pathID(c, "hosterId")
	if err != nil {
		return err
	}
	if pathHoster != hosterID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	}

	items, err := h.Appointments.ListByHoster(c.Request().Context(), hosterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "appointments": items})
}
