package app

import (
	"errors"

	"sistema-asistencia/internal/attendance"
	"sistema-asistencia/internal/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RunScheduler enqueues the attendance maintenance task on MAINTENANCE_CRON. It blocks until SIGINT or SIGTERM.
func RunScheduler(cfg config.Config) error {
	logger := zap.L().Named("app.scheduler")

	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	task, err := attendance.NewMaintenanceTask("schedule")
	if err != nil {
		return err
	}

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, &asynq.SchedulerOpts{})
	entryID, err := scheduler.Register(cfg.MaintenanceCron, task)
	if err != nil {
		return err
	}
	logger.Info("maintenance schedule registered",
		zap.String("entry_id", entryID),
		zap.String("cron", cfg.MaintenanceCron),
	)

	return scheduler.Run()
}
