package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	ActorID string
	Meta    map[string]any
}

//go:generate mockgen -source=audit_logger.go -destination=mock/audit_logger_mock.go -package=mock
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type nopAuditLogger struct{}

func (nopAuditLogger) Log(context.Context, AuditLog) {}

// NopAuditLogger discards every entry.
func NopAuditLogger() AuditLogger {
	return nopAuditLogger{}
}
