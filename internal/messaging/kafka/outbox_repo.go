package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	OutboxStatusPending   = "pending"
	OutboxStatusPublished = "published"
	OutboxStatusErrored   = "errored"
)

// TopicPrefix is the namespace every ministry event topic lives under
// (ministry.attendance.checkin.v1, ministry.student.frozen.v1).
const TopicPrefix = "ministry."

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	Attempts      int
	DeliverAfter  time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListDue(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id string) error
	MarkErrored(ctx context.Context, id string, cause string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

// Create inserts inside the caller's transaction so the event commits or rolls
// back together with the check-in or freeze that produced it.
func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	query := `
        INSERT INTO event_outbox (
            id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

func (r *outboxRepository) ListDue(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `
SELECT
	id::text,
	COALESCE(request_id, ''),
	aggregate_type,
	aggregate_id::text,
	event_type,
	topic,
	payload,
	status,
	attempts,
	COALESCE(deliver_after, created_at)
FROM event_outbox
WHERE status IN ($1, $2)
	AND (deliver_after IS NULL OR deliver_after <= NOW())
ORDER BY created_at ASC
LIMIT $3
`

	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusErrored, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Topic,
			&e.Payload,
			&e.Status,
			&e.Attempts,
			&e.DeliverAfter,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id string) error {
	query := `
UPDATE event_outbox
SET
	status = $2,
	published_at = NOW(),
	last_error = NULL,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusPublished)
	return err
}

// MarkErrored records the failure and schedules a retry with exponential
// backoff, capped at ten minutes so a flapping broker never starves the queue.
func (r *outboxRepository) MarkErrored(ctx context.Context, id string, cause string) error {
	query := `
UPDATE event_outbox
SET
	status = $2,
	attempts = attempts + 1,
	last_error = LEFT($3, 500),
	deliver_after = NOW() + LEAST(POWER(2, LEAST(attempts, 6)) * INTERVAL '10 seconds', INTERVAL '10 minutes'),
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusErrored, cause)
	return err
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if event.EventType == "" {
		return errors.New("outbox event type is required")
	}
	if !strings.HasPrefix(event.Topic, TopicPrefix) {
		return fmt.Errorf("outbox topic must be under %q: %s", TopicPrefix, event.Topic)
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusPublished, OutboxStatusErrored:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
