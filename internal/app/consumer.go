package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/events"
	"sistema-asistencia/internal/messaging/kafka/consumer"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/shared/connection"
	"sistema-asistencia/internal/student"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const completionGroupID = "sistema-asistencia-completion"

// RunConsumer keeps student completion dates in step with hours-changed events.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	studentService := student.NewService(student.NewRepository(gormDB), nil, clock.System())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.HoursChangedTopic,
		GroupID:        completionGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeHoursChanged(ctx, reader, studentService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
