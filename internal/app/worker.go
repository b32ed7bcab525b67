package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sistema-asistencia/internal/attendance"
	"sistema-asistencia/internal/bootstrap"
	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/messaging/kafka"
	"sistema-asistencia/internal/messaging/kafka/producer"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/shared/connection"
	"sistema-asistencia/internal/student"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var ErrNothingToRun = errors.New("neither KAFKA_BROKER nor REDIS_ADDR is set")

// RunWorker relays the outbox to Kafka and executes queued maintenance tasks.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.KafkaBroker == "" && cfg.RedisAddr == "" {
		return ErrNothingToRun
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

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaBroker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		go producer.ProcessOutboxEvents(
			ctx,
			outboxRepo,
			kafkaWriter,
			logger,
			3*time.Second,
		)
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox relay disabled")
	}

	var srv *asynq.Server
	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			return err
		}
		defer rdb.Close()

		clk := clock.System()
		studentRepo := student.NewRepository(gormDB)
		attendanceService := attendance.NewServiceWithOutbox(
			sqlDB,
			attendance.NewRepository(gormDB),
			studentRepo,
			outboxRepo,
			student.NewService(studentRepo, rdb, clk),
			bootstrap.NewStdoutAuditLogger(),
			clk,
			cfg.Policy,
		)

		mux := asynq.NewServeMux()
		mux.Handle(attendance.TypeMaintenance, attendance.MaintenanceTaskHandler(attendanceService, logger))

		srv = asynq.NewServer(
			asynq.RedisClientOpt{Addr: cfg.RedisAddr},
			asynq.Config{Concurrency: 1},
		)
		if err := srv.Start(mux); err != nil {
			return err
		}
		logger.Info("maintenance task server started", zap.String("redis_addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR not set, maintenance tasks disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()
	if srv != nil {
		srv.Shutdown()
	}

	return nil
}
