package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ValidateRequest handles POST /api/hoster/requests/:id/validate. The
// engine creates the appointment and flips the request's flag in one
// transaction; a request on another hoster's timeslot is a 403 and a
// second validation of the same request is a 409.
func (h *HosterHandler) ValidateRequest(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.Validate(c.Request().Context(), id, hosterID); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnvalidateRequest handles POST /api/hoster/requests/:id/unvalidate.
// Same ownership rule as validation; reversing a request that was
// never validated is a harmless no-op.
func (h *HosterHandler) UnvalidateRequest(c echo.Context) error {
	hosterID, err := currentHoster(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Engine.Unvalidate(c.Request().Context(), id, hosterID); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
