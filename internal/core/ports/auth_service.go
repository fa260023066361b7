package ports

import (
	"context"

	"github.com/identitykit/auth-service/internal/core/domain"
)

// AuthService implements registration, sign-in, and per-request principal
// resolution.
type AuthService interface {
	// Register creates a new identity. Role tags are resolved through the
	// seeded role table; an empty tag set assigns exactly ROLE_USER. No
	// token is issued: the caller must sign in separately.
	Register(ctx context.Context, username, email, password string, roleTags []string) (*domain.User, error)
	// Login verifies credentials and issues a signed token. Unknown
	// username and wrong password produce the same error.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// ResolvePrincipal builds the request-scoped principal for a validated
	// token subject, reading roles freshly from storage.
	ResolvePrincipal(ctx context.Context, username string) (*domain.Principal, error)
}
