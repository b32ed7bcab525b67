package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeMaintenance = "attendance:maintenance"

// A queued maintenance task blocks duplicates for this long.
const maintenanceUniqueTTL = 10 * time.Minute

type MaintenancePayload struct {
	Trigger string `json:"trigger"`
}

func NewMaintenanceTask(trigger string) (*asynq.Task, error) {
	payload, err := json.Marshal(MaintenancePayload{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMaintenance, payload, asynq.MaxRetry(3), asynq.Unique(maintenanceUniqueTTL)), nil
}

// MaintenanceTaskHandler runs the cap and stale-close passes for a scheduled task.
func MaintenanceTaskHandler(service Service, logger *zap.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("attendance.tasks")

	return func(ctx context.Context, t *asynq.Task) error {
		var payload MaintenancePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("maintenance payload decode failed", zap.Error(err))
			return fmt.Errorf("decode %s payload: %w", TypeMaintenance, asynq.SkipRetry)
		}

		resp, err := service.RunMaintenance(ctx)
		if err != nil {
			logger.Error("maintenance task failed",
				zap.String("trigger", payload.Trigger),
				zap.Int("capped", resp.Capped),
				zap.Int("stale_closed", resp.StaleClosed),
				zap.Error(err),
			)
			return err
		}

		logger.Info("maintenance task done",
			zap.String("trigger", payload.Trigger),
			zap.Int("capped", resp.Capped),
			zap.Int("stale_closed", resp.StaleClosed),
		)
		return nil
	}
}
