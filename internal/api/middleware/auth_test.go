package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/identitykit/auth-service/internal/core/domain"
	"github.com/identitykit/auth-service/internal/core/token"
	"github.com/identitykit/auth-service/internal/metrics"
)

type stubAuthService struct {
	principals map[string]*domain.Principal
}

func (s *stubAuthService) Register(context.Context, string, string, string, []string) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) ResolvePrincipal(_ context.Context, username string) (*domain.Principal, error) {
	p, ok := s.principals[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func testGuard(t *testing.T) (echo.MiddlewareFunc, *token.Codec) {
	t.Helper()
	codec := token.NewCodec("secret", time.Hour)
	svc := &stubAuthService{principals: map[string]*domain.Principal{
		"alice": {ID: "1", Username: "alice", Email: "alice@example.com", Roles: []domain.Role{domain.RoleAdmin}},
	}}
	return Auth(codec, svc), codec
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	mw, codec := testGuard(t)

	signed, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		principal, ok := c.Get(PrincipalKey).(*domain.Principal)
		if !ok || principal.Username != "alice" {
			t.Fatalf("principal not set: %v", c.Get(PrincipalKey))
		}
		if !principal.HasAnyRole(domain.RoleAdmin) {
			t.Fatalf("expected ADMIN role, got %v", principal.Roles)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingHeaderPassesAnonymously(t *testing.T) {
	e := echo.New()
	mw, _ := testGuard(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(PrincipalKey) != nil {
			t.Fatalf("anonymous request must not carry a principal")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("anonymous request should reach the handler")
	}
}

func TestAuth_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	mw, _ := testGuard(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidHeaderFormatCountsAsMalformed(t *testing.T) {
	e := echo.New()
	mw, _ := testGuard(t)

	before := testutil.ToFloat64(metrics.TokenValidationsTotal.WithLabelValues("malformed"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	after := testutil.ToFloat64(metrics.TokenValidationsTotal.WithLabelValues("malformed"))
	if after != before+1 {
		t.Fatalf("expected malformed counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestAuth_BadToken(t *testing.T) {
	e := echo.New()
	mw, _ := testGuard(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	e := echo.New()
	mw, _ := testGuard(t)

	past := time.Now().Add(-time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(past),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_UnknownSubject(t *testing.T) {
	e := echo.New()
	mw, codec := testGuard(t)

	signed, err := codec.Issue("deleted-user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
