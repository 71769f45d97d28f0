package audit

import (
	"context"

	saltAudit "github.com/goto/salt/audit"
)

// AuditLogger records who did what to which record. Implementations
// must be safe for concurrent use.
type AuditLogger interface {
	Log(ctx context.Context, action string, data interface{}) error
}

// WithActor stores the acting user on the context so the audit
// repository can attach it to every record written downstream.
func WithActor(ctx context.Context, actor string) context.Context {
	return saltAudit.WithActor(ctx, actor)
}
