package main

import (
	"context"
	"os"

	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/migrations"
	"sistema-asistencia/internal/shared/connection"

	"go.uber.org/zap"
)

// Usage: migrate <up|down|status|redo|version|...> [args]
func main() {
	cfg := config.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if len(os.Args) < 2 {
		logger.Fatal("migrate failed", zap.Error(migrations.ErrNoCommand))
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	defer sqlDB.Close()

	command := os.Args[1]
	if err := migrations.Run(context.Background(), sqlDB, command, os.Args[2:]...); err != nil {
		logger.Fatal("migrate failed", zap.String("command", command), zap.Error(err))
	}
	logger.Info("migrate finished", zap.String("command", command))
}
