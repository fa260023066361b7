package ports

import (
	"context"

	"github.com/identitykit/auth-service/internal/core/domain"
)

// RoleRepository provides access to the seeded role reference data.
type RoleRepository interface {
	// FindByName returns the stored record for a canonical role name, or
	// domain.ErrRoleNotFound when the seed row is missing.
	FindByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
	// Seed creates the closed role set idempotently.
	Seed(ctx context.Context) error
}
