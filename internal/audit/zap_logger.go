package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type zapLogger struct{}

// NewZapLogger emits audit events to the process log only. Used by the worker
// and consumer binaries where no request-scoped DB handle exists.
func NewZapLogger() Logger {
	return &zapLogger{}
}

func (l *zapLogger) Log(ctx context.Context, event Event) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("kind", event.Kind),
		zap.String("actor", event.Actor),
		zap.String("entity_id", event.EntityID),
		zap.Any("payload", event.Payload),
	)
}
