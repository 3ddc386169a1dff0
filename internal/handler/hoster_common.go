package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/engine"
	"github.com/hosterly/booking-api/internal/middleware"
	"github.com/hosterly/booking-api/internal/repository"
)

// BookingEngine is the slice of the reconciliation engine the handlers
// call. Declared here so handler tests can substitute a stub.
type BookingEngine interface {
	Validate(ctx context.Context, requestID, hosterID uint64) error
	Unvalidate(ctx context.Context, requestID, hosterID uint64) error
	Withdraw(ctx context.Context, timeslotID, hosterID uint64) error
	Retract(ctx context.Context, requestID uint64) error
}

// HosterHandler bundles the repositories and the engine behind the
// hoster-facing endpoints.
type HosterHandler struct {
	Timeslots    *repository.TimeslotRepo
	Clients      *repository.ClientRepo
	Connections  *repository.ConnectionRepo
	Requests     *repository.RequestRepo
	Appointments *repository.AppointmentRepo
	Engine       BookingEngine
}

// NewHosterHandler constructs a HosterHandler and panics on a nil dependency.
func NewHosterHandler(ts *repository.TimeslotRepo, cl *repository.ClientRepo, cn *repository.ConnectionRepo, rq *repository.RequestRepo, ap *repository.AppointmentRepo, eng BookingEngine) *HosterHandler {
	if ts == nil || cl == nil || cn == nil || rq == nil || ap == nil || eng == nil {
		panic("nil dependency passed to NewHosterHandler")
	}
	return &HosterHandler{Timeslots: ts, Clients: cl, Connections: cn, Requests: rq, Appointments: ap, Engine: eng}
}

// currentHoster returns the authenticated hoster id or responds 401.
func currentHoster(c echo.Context) (uint64, error) {
	id := middleware.HosterID(c)
	if id == 0 {
		return 0, c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	return id, nil
}

// pathID parses a numeric path parameter; a parse failure produces the
// written 400 response as the returned error.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid " + name})
	}
	return id, nil
}

// engineError translates engine sentinels into the HTTP envelope.
func engineError(c echo.Context, err error) error {
	switch err {
	case engine.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "not found"})
	case engine.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	case engine.ErrAlreadyValidated:
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "request already validated"})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	}
}
