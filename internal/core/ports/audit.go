package ports

import (
	"context"

	"github.com/carelink/health-exchange/internal/core/domain"
)

// AuditRepository appends events to the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink receives audit events for asynchronous persistence. Emit must not
// block the request path beyond the dispatcher's channel buffer.
type AuditSink interface {
	Emit(event domain.AuditEvent)
}

// AuditService processes dequeued audit events.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
