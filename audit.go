package goAuthState

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/MrEthical07/goAuthState/internal/audit"
)

// AuditEvent is one audit record. ID and Timestamp are filled on emit.
type AuditEvent = audit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards events.
type NoOpSink = audit.NoOpSink

// Audit event types.
const (
	AuditLogin             = audit.TypeLogin
	AuditLoginRejected     = audit.TypeLoginRejected
	AuditLogout            = audit.TypeLogout
	AuditSetUser           = audit.TypeSetUser
	AuditRehydrate         = audit.TypeRehydrate
	AuditAccessDenied      = audit.TypeAccessDenied
	AuditStorageDegraded   = audit.TypeStorageDegraded
	AuditCacheClearFailure = audit.TypeCacheClearFailure
)

// NewChannelSink returns a sink that forwards events to a buffered channel.
func NewChannelSink(buffer int) *audit.ChannelSink { return audit.NewChannelSink(buffer) }

// NewJSONWriterSink returns a sink that writes JSON lines to w.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink { return audit.NewJSONWriterSink(w) }

// NewZapSink returns a sink that logs events through log.
func NewZapSink(log *zap.Logger) *audit.ZapSink { return audit.NewZapSink(log) }

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	if ip := clientIPFromContext(ctx); ip != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string, 1)
		}
		event.Metadata["ip"] = ip
	}
	e.audit.Emit(ctx, event)
}
