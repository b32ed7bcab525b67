package consumer

import (
	"context"
	"encoding/json"

	"sistema-asistencia/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader used by the consumers.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// CompletionSyncer stamps or clears a student's completion date from current hours.
type CompletionSyncer interface {
	SyncCompletion(ctx context.Context, studentID string) (bool, error)
}

func ConsumeHoursChanged(
	ctx context.Context,
	reader MessageReader,
	students CompletionSyncer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.hours_changed")
	log.Info("hours changed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("hours changed consumer stopped")
				return
			}
			log.Error("fetch hours changed message failed", zap.Error(err))
			continue
		}

		handleHoursChanged(ctx, reader, students, log, msg)
	}
}

func handleHoursChanged(
	ctx context.Context,
	reader MessageReader,
	students CompletionSyncer,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.HoursChangedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.StudentID == "" {
		log.Error("decode hours changed event failed", zap.ByteString("key", msg.Key), zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	completed, err := students.SyncCompletion(ctx, event.StudentID)
	if err != nil {
		// Not committed, but a later commit on this partition moves past it. SyncCompletion reads current
		// hours, so the next event for this student repairs the completion date.
		log.Error("sync student completion failed",
			zap.String("student_id", event.StudentID),
			zap.String("source", event.Source),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit hours changed message failed", zap.Error(err))
		return
	}

	log.Info("student completion synced",
		zap.String("student_id", event.StudentID),
		zap.String("source", event.Source),
		zap.Float64("accumulated_hours", event.AccumulatedHours),
		zap.Bool("completed", completed),
	)
}
