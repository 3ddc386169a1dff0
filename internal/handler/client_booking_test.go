package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hosterly/booking-api/internal/engine"
)

func newClientContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSubmitRequestPreferenceRange(t *testing.T) {
	h := &ClientHandler{Engine: &stubEngine{}}
	for _, pref := range []string{"0", "6", "-1"} {
		body := `{"connection_id":"abc","timeslot_id":3,"start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T10:00:00Z","preference":` + pref + `}`
		c, rec := newClientContext(t, http.MethodPost, "/api/client/requests", body)

		if err := h.SubmitRequest(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("preference %s: want 400, got %d", pref, rec.Code)
		}
	}
}

func TestSubmitRequestRejectsInvertedInterval(t *testing.T) {
	h := &ClientHandler{Engine: &stubEngine{}}
	body := `{"connection_id":"abc","timeslot_id":3,"start_time":"2026-03-01T10:00:00Z","end_time":"2026-03-01T09:00:00Z","preference":3}`
	c, rec := newClientContext(t, http.MethodPost, "/api/client/requests", body)

	if err := h.SubmitRequest(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestSubmitRequestRequiresConnection(t *testing.T) {
	h := &ClientHandler{Engine: &stubEngine{}}
	body := `{"timeslot_id":3,"start_time":"2026-03-01T09:00:00Z","end_time":"2026-03-01T10:00:00Z","preference":3}`
	c, rec := newClientContext(t, http.MethodPost, "/api/client/requests", body)

	if err := h.SubmitRequest(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestUpdatePreferenceRange(t *testing.T) {
	h := &ClientHandler{Engine: &stubEngine{}}
	c, rec := newClientContext(t, http.MethodPut, "/api/client/requests/7", `{"preference":9}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.UpdatePreference(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestRetractRequestStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		engineErr  error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"missing", engine.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubEngine{retractErr: tc.engineErr}
			h := &ClientHandler{Engine: stub}

			c, rec := newClientContext(t, http.MethodDelete, "/api/client/requests/7", "")
			c.SetParamNames("id")
			c.SetParamValues("7")

			if err := h.RetractRequest(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("want %d, got %d", tc.wantStatus, rec.Code)
			}
			if len(stub.retracted) != 1 || stub.retracted[0] != 7 {
				t.Errorf("engine called with %v", stub.retracted)
			}
		})
	}
}
