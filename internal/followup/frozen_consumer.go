package followup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/digitalmerch4862/KingdomKids-sub000/internal/events"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StudentFrozenConsumer turns frozen-student events into follow-up queue
// entries. The service call is idempotent, so redeliveries are safe to
// commit.
type StudentFrozenConsumer struct {
	reader  *kafka.Reader
	service Service
	logger  *zap.Logger
}

func NewStudentFrozenConsumer(
	broker string,
	groupID string,
	service Service,
	logger ...*zap.Logger,
) *StudentFrozenConsumer {
	l := zap.L().Named("followup.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("followup.consumer")
	}

	return &StudentFrozenConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{broker},
			Topic:          events.StudentFrozenTopic,
			GroupID:        groupID,
			CommitInterval: time.Second,
			StartOffset:    kafka.FirstOffset,
		}),
		service: service,
		logger:  l,
	}
}

func (c *StudentFrozenConsumer) Start(ctx context.Context) {
	go func() {
		c.logger.Info("student frozen consumer started")
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("student frozen consumer stopped")
					return
				}
				c.logger.Error("consume student.frozen failed", zap.Error(err))
				continue
			}

			var event events.StudentFrozenEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("decode student.frozen event failed", zap.Error(err))
				if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("commit invalid student.frozen event failed", zap.Error(commitErr))
				}
				continue
			}

			if err := c.service.CreateFromFrozenEvent(ctx, event); err != nil {
				c.logger.Error("open follow-up from student.frozen failed",
					zap.String("student_id", event.StudentID),
					zap.Error(err),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("commit student.frozen event failed", zap.Error(err))
				continue
			}

			c.logger.Info("follow-up queued from student.frozen event",
				zap.String("student_id", event.StudentID),
				zap.String("student_name", event.FullName),
			)
		}
	}()
}

func (c *StudentFrozenConsumer) Close() error {
	return c.reader.Close()
}
