package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Record struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind      string    `gorm:"column:kind;type:varchar(40);not null;index"`
	Actor     string    `gorm:"column:actor;type:varchar(120);not null"`
	EntityID  string    `gorm:"column:entity_id;type:varchar(80);index"`
	Payload   string    `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "audit_logs"
}

type gormLogger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormLogger writes audit events to the audit_logs table.
func NewGormLogger(db *gorm.DB) Logger {
	return &gormLogger{db: db, logger: zap.L().Named("audit")}
}

func (l *gormLogger) Log(ctx context.Context, event Event) {
	payload := "{}"
	if event.Payload != nil {
		if raw, err := json.Marshal(event.Payload); err == nil {
			payload = string(raw)
		}
	}

	rec := Record{
		ID:       uuid.New(),
		Kind:     event.Kind,
		Actor:    event.Actor,
		EntityID: event.EntityID,
		Payload:  payload,
	}

	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// Best-effort sink: never propagate audit failures to callers.
		l.logger.Warn("audit write failed",
			zap.String("kind", event.Kind),
			zap.String("entity_id", event.EntityID),
			zap.Error(err),
		)
	}
}
