package kafka

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func validEvent() OutboxEvent {
	return OutboxEvent{
		ID:            "0f4d7a2e-0000-0000-0000-000000000001",
		RequestID:     "req-1",
		AggregateType: "student",
		AggregateID:   "0f4d7a2e-0000-0000-0000-000000000002",
		EventType:     "student.frozen",
		Topic:         "ministry.student.frozen.v1",
		Payload:       []byte(`{"student_id":"s1"}`),
		Status:        OutboxStatusPending,
	}
}

func TestValidateOutboxEvent(t *testing.T) {
	assert.NoError(t, ValidateOutboxEvent(validEvent()))

	noID := validEvent()
	noID.ID = ""
	assert.Error(t, ValidateOutboxEvent(noID))

	noAggregate := validEvent()
	noAggregate.AggregateID = ""
	assert.Error(t, ValidateOutboxEvent(noAggregate))

	noType := validEvent()
	noType.EventType = ""
	assert.Error(t, ValidateOutboxEvent(noType))

	foreignTopic := validEvent()
	foreignTopic.Topic = "hr.attendance.clockin.v1"
	assert.Error(t, ValidateOutboxEvent(foreignTopic))

	emptyPayload := validEvent()
	emptyPayload.Payload = nil
	assert.Error(t, ValidateOutboxEvent(emptyPayload))

	badStatus := validEvent()
	badStatus.Status = "queued"
	assert.Error(t, ValidateOutboxEvent(badStatus))
}

func TestOutboxCreateJoinsCallerTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := validEvent()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO event_outbox").
		WithArgs(
			event.ID, event.RequestID, event.AggregateType,
			event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := NewOutboxRepository(db)
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxMarkErroredSchedulesRetry(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE event_outbox").
		WithArgs("evt-1", OutboxStatusErrored, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOutboxRepository(db)
	assert.NoError(t, repo.MarkErrored(context.Background(), "evt-1", "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxListDueScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := validEvent()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id",
		"event_type", "topic", "payload", "status", "attempts", "deliver_after",
	}).AddRow(
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status, 2, event.DeliverAfter,
	)

	mock.ExpectQuery("FROM event_outbox").
		WithArgs(OutboxStatusPending, OutboxStatusErrored, 25).
		WillReturnRows(rows)

	repo := NewOutboxRepository(db)
	got, err := repo.ListDue(context.Background(), 25)

	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, event.ID, got[0].ID)
		assert.Equal(t, event.Topic, got[0].Topic)
		assert.Equal(t, 2, got[0].Attempts)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
