package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/auth-service/internal/core/domain"
	"github.com/identitykit/auth-service/internal/core/ports"
	"github.com/identitykit/auth-service/internal/core/token"
	"github.com/identitykit/auth-service/internal/metrics"
)

// PrincipalKey is the echo context key the authenticated principal is
// stored under. The value lives exactly as long as the request.
const PrincipalKey = "principal"

// Auth validates the bearer token, resolves the caller's current roles from
// storage, and injects the principal into the request context.
//
// A request without an Authorization header passes through anonymously:
// whether that is acceptable is decided per route by RequireRoles. A request
// carrying a bad token is rejected outright.
func Auth(codec *token.Codec, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := codec.Validate(parts[1])
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues(validationResult(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			// Roles come from storage, not the token: revoking a role takes
			// effect on the next request even for an unexpired token.
			principal, err := auth.ResolvePrincipal(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown token subject")
				}
				return err
			}

			c.Set(PrincipalKey, principal)

			return next(c)
		}
	}
}

func validationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenForged):
		return "forged"
	default:
		return "malformed"
	}
}
