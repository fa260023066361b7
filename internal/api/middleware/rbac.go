package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/auth-service/internal/core/domain"
)

// RequireRoles enforces the route's role predicate: the caller must hold at
// least one of the allowed roles. Anonymous callers get 401, authenticated
// callers without a matching role get 403.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(*domain.Principal)
			if !ok || principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !principal.HasAnyRole(allowed...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
