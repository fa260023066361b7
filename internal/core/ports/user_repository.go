package ports

import (
	"context"

	"github.com/identitykit/auth-service/internal/core/domain"
)

// UserRepository defines the interface for user identity persistence.
// Username and email uniqueness is enforced by the storage layer itself, so
// two concurrent Save calls with the same username resolve as exactly one
// success and one conflict error.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
