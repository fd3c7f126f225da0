package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithRoles(mw echo.MiddlewareFunc, roles ...string) int {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", roles...))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code
}

func TestRequireRole_Allowed(t *testing.T) {
	if code := callWithRoles(RequireRole("hospital"), "hospital"); code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	if code := callWithRoles(RequireRole("donor"), "admin"); code != http.StatusOK {
		t.Errorf("expected admin to pass, got %d", code)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	if code := callWithRoles(RequireRole("hospital"), "donor"); code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", code)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	if code := callWithRoles(RequireRole("hospital")); code != http.StatusForbidden {
		t.Errorf("expected 403 without roles, got %d", code)
	}
}
