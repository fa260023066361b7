package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/auth-service/internal/core/domain"
	"github.com/identitykit/auth-service/internal/core/token"
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

// One router for the whole package: the prometheus middleware registers its
// collectors globally, so NewRouter must run exactly once per test binary.
var (
	testCodec = token.NewCodec("secret", time.Hour)
	testSvc   = &stubAuthService{principals: make(map[string]*domain.Principal)}
	testEcho  = NewRouter(nil, nil, testSvc, testCodec, zerolog.Nop())
)

func get(path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	testEcho.ServeHTTP(rec, req)
	return rec
}

func issue(t *testing.T, username string) string {
	t.Helper()
	signed, err := testCodec.Issue(username)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return signed
}

func TestRouter_AccessLevels(t *testing.T) {
	testSvc.principals["plain"] = &domain.Principal{ID: "1", Username: "plain", Roles: []domain.Role{domain.RoleUser}}
	testSvc.principals["mod"] = &domain.Principal{ID: "2", Username: "mod", Roles: []domain.Role{domain.RoleModerator}}
	testSvc.principals["root"] = &domain.Principal{ID: "3", Username: "root", Roles: []domain.Role{domain.RoleAdmin}}

	userToken := issue(t, "plain")
	modToken := issue(t, "mod")
	adminToken := issue(t, "root")

	cases := []struct {
		name     string
		path     string
		bearer   string
		wantCode int
		wantBody string
	}{
		{"public anonymous", "/api/test/all", "", http.StatusOK, "Public Content"},
		{"public with token", "/api/test/all", userToken, http.StatusOK, "Public Content"},
		{"user anonymous", "/api/test/user", "", http.StatusUnauthorized, ""},
		{"user as user", "/api/test/user", userToken, http.StatusOK, "User Content"},
		{"user as admin", "/api/test/user", adminToken, http.StatusOK, "User Content"},
		{"mod as user", "/api/test/mod", userToken, http.StatusForbidden, ""},
		{"mod as moderator", "/api/test/mod", modToken, http.StatusOK, "Moderator Content"},
		{"mod as admin", "/api/test/mod", adminToken, http.StatusOK, "Moderator Content"},
		{"admin anonymous", "/api/test/admin", "", http.StatusUnauthorized, ""},
		{"admin as user", "/api/test/admin", userToken, http.StatusForbidden, ""},
		{"admin as moderator", "/api/test/admin", modToken, http.StatusForbidden, ""},
		{"admin as admin", "/api/test/admin", adminToken, http.StatusOK, "Admin Content"},
	}

	for _, tc := range cases {
		rec := get(tc.path, tc.bearer)
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d (body %q)", tc.name, tc.wantCode, rec.Code, rec.Body.String())
		}
		if tc.wantBody != "" && rec.Body.String() != tc.wantBody {
			t.Fatalf("%s: expected body %q, got %q", tc.name, tc.wantBody, rec.Body.String())
		}
	}
}

func TestRouter_RevokedRoleTakesEffectNextRequest(t *testing.T) {
	testSvc.principals["victor"] = &domain.Principal{ID: "9", Username: "victor", Roles: []domain.Role{domain.RoleAdmin}}
	signed := issue(t, "victor")

	if rec := get("/api/test/admin", signed); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 before revocation, got %d", rec.Code)
	}

	// Revoke ADMIN in storage; the token itself is still unexpired.
	testSvc.principals["victor"].Roles = []domain.Role{domain.RoleUser}

	if rec := get("/api/test/admin", signed); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after revocation, got %d", rec.Code)
	}
	if rec := get("/api/test/user", signed); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on user endpoint after revocation, got %d", rec.Code)
	}
}

func TestRouter_ExpiredTokenRejected(t *testing.T) {
	testSvc.principals["walter"] = &domain.Principal{ID: "10", Username: "walter", Roles: []domain.Role{domain.RoleAdmin}}

	short := token.NewCodec("secret", time.Nanosecond)
	signed, err := short.Issue("walter")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if rec := get("/api/test/admin", signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestRouter_Me(t *testing.T) {
	testSvc.principals["yvonne"] = &domain.Principal{
		ID: "11", Username: "yvonne", Email: "yvonne@example.com", Roles: []domain.Role{domain.RoleUser},
	}
	signed := issue(t, "yvonne")

	rec := get("/api/auth/me", signed)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"username":"yvonne"`, `"email":"yvonne@example.com"`, `"ROLE_USER"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in body %s", want, body)
		}
	}

	if rec := get("/api/auth/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
