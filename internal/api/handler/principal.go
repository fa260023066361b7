package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/auth-service/internal/api/middleware"
	"github.com/identitykit/auth-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Handlers behind RequireRoles can assume it is present; this is the
// fast-fail for any route wired without the guard.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || principal == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}
