package logging

import (
	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENTS
// =============================================================================
// Audit entries are structured (not printf) so a log pipeline can count
// commands per intent and spot partial writes without parsing prose.

// AuditEventType names an audit event.
type AuditEventType string

const (
	AuditCommandParsed   AuditEventType = "command_parsed"
	AuditCommandExecuted AuditEventType = "command_executed"
	AuditCommandFailed   AuditEventType = "command_failed"
	AuditPointsAwarded   AuditEventType = "points_awarded"
	AuditPointsFailed    AuditEventType = "points_failed"
)

// AuditEvent is one structured audit entry.
type AuditEvent struct {
	Type    AuditEventType
	UserID  string
	Intent  string
	Points  int
	Partial bool
	Err     error
}

// Audit writes ev to the audit category.
func Audit(ev AuditEvent) {
	mu.RLock()
	enabled := categoryEnabledLocked(CategoryAudit)
	mu.RUnlock()
	if !enabled {
		return
	}

	fields := []zap.Field{
		zap.String("event", string(ev.Type)),
		zap.String("user_id", ev.UserID),
	}
	if ev.Intent != "" {
		fields = append(fields, zap.String("intent", ev.Intent))
	}
	if ev.Points != 0 {
		fields = append(fields, zap.Int("points", ev.Points))
	}
	if ev.Partial {
		fields = append(fields, zap.Bool("partial_write", true))
	}

	logger := Base().Named(string(CategoryAudit))
	if ev.Err != nil {
		logger.Error("audit", append(fields, zap.Error(ev.Err))...)
		return
	}
	logger.Info("audit", fields...)
}
