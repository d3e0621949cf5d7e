package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, typ string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "alice@example.com",
		"role": "patient",
		"sid":  "sess-1",
		"typ":  typ,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func invokeAuth(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	token := signTestToken(t, "access", time.Hour)
	c, err := invokeAuth(t, Auth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if c.Get("email") != "alice@example.com" || c.Get("role") != "patient" || c.Get("session_id") != "sess-1" {
		t.Fatalf("claims not injected: email=%v role=%v sid=%v", c.Get("email"), c.Get("role"), c.Get("session_id"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := invokeAuth(t, Auth(testSecret), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	claims := jwt.MapClaims{"sub": "x", "typ": "access", "exp": time.Now().Add(time.Hour).Unix()}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))

	_, err := invokeAuth(t, Auth(testSecret), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signTestToken(t, "access", -time.Minute)
	_, err := invokeAuth(t, Auth(testSecret), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	token := signTestToken(t, "refresh", time.Hour)
	_, err := invokeAuth(t, Auth(testSecret), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("refresh tokens must be rejected, got %v", err)
	}
}

func TestAuthOptional_NoHeaderPassesThrough(t *testing.T) {
	c, err := invokeAuth(t, AuthOptional(testSecret), "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if c.Get("email") != nil {
		t.Fatalf("anonymous request must carry no claims")
	}
}

func TestAuthOptional_InvalidTokenDowngrades(t *testing.T) {
	c, err := invokeAuth(t, AuthOptional(testSecret), "Bearer garbage")
	if err != nil {
		t.Fatalf("invalid token must downgrade to anonymous, got %v", err)
	}
	if c.Get("email") != nil {
		t.Fatalf("invalid token must not inject claims")
	}
}

func TestAuthOptional_ValidTokenInjectsClaims(t *testing.T) {
	token := signTestToken(t, "access", time.Hour)
	c, err := invokeAuth(t, AuthOptional(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if c.Get("email") != "alice@example.com" {
		t.Fatalf("claims not injected: %v", c.Get("email"))
	}
}
