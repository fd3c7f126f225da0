package camp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

func TestHandler_Create(t *testing.T) {
	h, _, e := newTestHandler()
	starts := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	body := `{"name":"Community Drive","city":"Pune","starts_at":"` + starts + `"}`
	c, rec := newContext(e, http.MethodPost, "/", body, "org-1", "hospital")

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Create_MissingStart(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"name":"Community Drive","city":"Pune"}`
	c, _ := newContext(e, http.MethodPost, "/", body, "org-1", "hospital")

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_RegisterDonor_Conflict(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	camp := validCamp()
	if err := svc.Create(ctx, "org-1", camp); err != nil {
		t.Fatal(err)
	}

	c, rec := newContext(e, http.MethodPost, "/", "", "donor-1", "donor")
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())
	if err := h.RegisterDonor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newContext(e, http.MethodPost, "/", "", "donor-1", "donor")
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())
	err := h.RegisterDonor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate registration, got %v", err)
	}
}

func TestHandler_Registrations(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	camp := validCamp()
	if err := svc.Create(ctx, "org-1", camp); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RegisterDonor(ctx, "donor-1", camp.ID); err != nil {
		t.Fatal(err)
	}

	c, rec := newContext(e, http.MethodGet, "/", "", "org-1", "hospital")
	c.SetParamNames("id")
	c.SetParamValues(camp.ID.String())
	if err := h.Registrations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "donor-1") {
		t.Error("expected registration in response")
	}
}

func TestHandler_List_CityFilter(t *testing.T) {
	h, svc, e := newTestHandler()
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	a := validCamp()
	if err := svc.Create(ctx, "org-1", a); err != nil {
		t.Fatal(err)
	}
	b := validCamp()
	b.Name = "Metro Drive"
	b.City = "Mumbai"
	if err := svc.Create(ctx, "org-1", b); err != nil {
		t.Fatal(err)
	}

	c, rec := newContext(e, http.MethodGet, "/?city=Mumbai", "", "donor-1", "donor")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), b.ID.String()) || strings.Contains(rec.Body.String(), a.ID.String()) {
		t.Error("city filter not applied")
	}
}
