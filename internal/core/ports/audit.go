package ports

import (
	"context"

	"github.com/identitykit/auth-service/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService records one authentication outcome.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
