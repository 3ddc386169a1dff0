package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/engine"
)

// stubEngine returns canned errors and records the ids it was called with.
type stubEngine struct {
	validateErr   error
	unvalidateErr error
	withdrawErr   error
	retractErr    error

	validated   []uint64
	validatedBy []uint64
	withdrawn   []uint64
	retracted   []uint64
}

func (s *stubEngine) Validate(ctx context.Context, id, hosterID uint64) error {
	s.validated = append(s.validated, id)
	s.validatedBy = append(s.validatedBy, hosterID)
	return s.validateErr
}
func (s *stubEngine) Unvalidate(ctx context.Context, id, hosterID uint64) error {
	return s.unvalidateErr
}
func (s *stubEngine) Withdraw(ctx context.Context, timeslotID, hosterID uint64) error {
	s.withdrawn = append(s.withdrawn, timeslotID)
	return s.withdrawErr
}
func (s *stubEngine) Retract(ctx context.Context, id uint64) error {
	s.retracted = append(s.retracted, id)
	return s.retractErr
}

// newHosterContext builds an echo context carrying an authenticated
// hoster, the way JWTAuth leaves it.
func newHosterContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("hoster_id", uint64(1))
	c.Set("role", "HOSTER")
	return c, rec
}

func TestValidateRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		engineErr  error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"already validated", engine.ErrAlreadyValidated, http.StatusConflict},
		{"missing", engine.ErrNotFound, http.StatusNotFound},
		{"foreign hoster", engine.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubEngine{validateErr: tc.engineErr}
			h := &HosterHandler{Engine: stub}

			c, rec := newHosterContext(t, http.MethodPost, "/api/hoster/requests/7/validate", "")
			c.SetParamNames("id")
			c.SetParamValues("7")

			if err := h.ValidateRequest(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("want %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if len(stub.validated) != 1 || stub.validated[0] != 7 {
				t.Errorf("engine called with %v", stub.validated)
			}
			// The handler must hand the engine the JWT identity, not
			// anything request-supplied.
			if len(stub.validatedBy) != 1 || stub.validatedBy[0] != 1 {
				t.Errorf("engine called as hoster %v", stub.validatedBy)
			}
		})
	}
}

func TestValidateRequestBadID(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	c, rec := newHosterContext(t, http.MethodPost, "/api/hoster/requests/x/validate", "")
	c.SetParamNames("id")
	c.SetParamValues("x")

	if err := h.ValidateRequest(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestWithdrawTimeslotForbidden(t *testing.T) {
	stub := &stubEngine{withdrawErr: engine.ErrForbidden}
	h := &HosterHandler{Engine: stub}

	c, rec := newHosterContext(t, http.MethodDelete, "/api/hoster/timeslots/3", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.WithdrawTimeslot(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
}

func TestWithdrawTimeslotUnauthorized(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/hoster/timeslots/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no hoster_id in context

	if err := h.WithdrawTimeslot(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestListAppointmentsForeignHosterPath(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	c, rec := newHosterContext(t, http.MethodGet, "/api/hoster/42/appointments", "")
	c.SetParamNames("hosterId")
	c.SetParamValues("42")

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestListAppointmentsBadHosterID(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	c, rec := newHosterContext(t, http.MethodGet, "/api/hoster/x/appointments", "")
	c.SetParamNames("hosterId")
	c.SetParamValues("x")

	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestPublishTimeslotRejectsInvertedInterval(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	body := `{"start_time":"2026-03-01T10:00:00Z","end_time":"2026-03-01T09:00:00Z"}`
	c, rec := newHosterContext(t, http.MethodPost, "/api/hoster/timeslots", body)

	if err := h.PublishTimeslot(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPublishTimeslotRequiresTimes(t *testing.T) {
	h := &HosterHandler{Engine: &stubEngine{}}
	c, rec := newHosterContext(t, http.MethodPost, "/api/hoster/timeslots", `{}`)

	if err := h.PublishTimeslot(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}
