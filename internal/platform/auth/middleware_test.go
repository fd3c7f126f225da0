package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func doRequest(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, string, []string) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID string
	var gotRoles []string
	handler := mw(func(c echo.Context) error {
		gotID = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, gotID, gotRoles
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "hosp-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"hospital"},
	})

	rec, gotID, gotRoles := doRequest(mw, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "hosp-42" {
		t.Errorf("expected subject on context, got %q", gotID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "hospital" {
		t.Errorf("expected roles on context, got %v", gotRoles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	rec, _, _ := doRequest(mw, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_BadFormat(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	rec, _, _ := doRequest(mw, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	token := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "donor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	rec, _, _ := doRequest(mw, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	rec, gotID, gotRoles := doRequest(DevAuthMiddleware(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "dev-user" {
		t.Errorf("expected dev identity, got %q", gotID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("expected admin role, got %v", gotRoles)
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := UserIDFromContext(req.Context()); got != "" {
		t.Errorf("expected empty id on bare context, got %q", got)
	}
}
