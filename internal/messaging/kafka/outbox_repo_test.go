package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sistema-asistencia/internal/events"
	"sistema-asistencia/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_CreateWithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	event, err := kafka.NewHoursChangedOutboxEvent(events.HoursChangedEvent{
		StudentID:        "stu-1",
		Source:           events.SourceCheckOut,
		DeltaHours:       2,
		AccumulatedHours: 12,
		OccurredAt:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, event.RequestID, "student", "stu-1", events.EventTypeHoursChanged, events.HoursChangedTopic, event.Payload, kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	assert.NoError(t, repo.Create(ctx, event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	err = repo.Create(context.Background(), kafka.OutboxEvent{ID: "x", Topic: "t", Payload: []byte("{}"), Status: "bogus"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid outbox status")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("ev-1", "student", "stu-1", events.EventTypeHoursChanged, events.HoursChangedTopic, []byte(`{}`), kafka.OutboxStatusPending, 0, now)

	mock.ExpectQuery("SELECT(.|\n)*FROM outbox_events").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	got, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "stu-1", got[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("ev-1", kafka.OutboxStatusFailed, "broker down").
		WillReturnError(errors.New("db gone"))

	err = kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "ev-1", "broker down")

	assert.EqualError(t, err, "db gone")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewHoursChangedOutboxEvent(t *testing.T) {
	ev, err := kafka.NewHoursChangedOutboxEvent(events.HoursChangedEvent{
		RequestID:  "req-9",
		StudentID:  "stu-2",
		Source:     events.SourceAdjustment,
		DeltaHours: -3,
	})
	assert.NoError(t, err)
	assert.NoError(t, kafka.ValidateOutboxEvent(ev))
	assert.Equal(t, "req-9", ev.RequestID)

	var decoded events.HoursChangedEvent
	assert.NoError(t, json.Unmarshal(ev.Payload, &decoded))
	assert.Equal(t, events.EventTypeHoursChanged, decoded.EventType)
	assert.Equal(t, -3.0, decoded.DeltaHours)
}
