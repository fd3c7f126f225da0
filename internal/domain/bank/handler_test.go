package bank

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
)

func newTestHandler() (*Handler, *Service, *echo.Echo) {
	svc := NewService(newMockRepo())
	return NewHandler(svc), svc, echo.New()
}

func newContext(e *echo.Echo, method, target, body, actor string, roles ...string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if actor != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), actor, roles...))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"name":"Central Blood Bank","city":"Pune"}`
	c, rec := newContext(e, http.MethodPost, "/", body, "bank-1", "bank")

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_SetStock(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}

	c, rec := newContext(e, http.MethodPut, "/", `{"units":8}`, "bank-1", "bank")
	c.SetParamNames("id", "group")
	c.SetParamValues(b.ID.String(), "O-")

	if err := h.SetStock(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"units":8`) {
		t.Errorf("expected units in response: %s", rec.Body.String())
	}
}

func TestHandler_SetStock_BadGroup(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}

	c, _ := newContext(e, http.MethodPut, "/", `{"units":8}`, "bank-1", "bank")
	c.SetParamNames("id", "group")
	c.SetParamValues(b.ID.String(), "XY")

	err := h.SetStock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_AdjustStock_Conflict(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}

	c, _ := newContext(e, http.MethodPost, "/", `{"delta":-2}`, "bank-1", "bank")
	c.SetParamNames("id", "group")
	c.SetParamValues(b.ID.String(), "A+")

	err := h.AdjustStock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409 for withdrawal from empty stock, got %v", err)
	}
}

func TestHandler_Stock(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStock(ctx, "bank-1", b.ID, "AB+", 4); err != nil {
		t.Fatal(err)
	}

	c, rec := newContext(e, http.MethodGet, "/", "", "donor-1", "donor")
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.Stock(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "AB+") {
		t.Errorf("expected AB+ entry in stock: %s", rec.Body.String())
	}
}
