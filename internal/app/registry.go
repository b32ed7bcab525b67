package app

import (
	"database/sql"

	"sistema-asistencia/internal/adjustment"
	"sistema-asistencia/internal/attendance"
	"sistema-asistencia/internal/bootstrap"
	"sistema-asistencia/internal/config"
	"sistema-asistencia/internal/messaging/kafka"
	"sistema-asistencia/internal/rbac"
	"sistema-asistencia/internal/rbac/infra"
	"sistema-asistencia/internal/shared/clock"
	"sistema-asistencia/internal/student"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	api *gin.RouterGroup,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
) error {
	clk := clock.System()
	auditLogger := bootstrap.NewStdoutAuditLogger()

	// --- Repositories ---
	rbacRepo := rbac.NewStaticRepository()
	studentRepo := student.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	adjustmentRepo := adjustment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	studentService := student.NewService(studentRepo, rdb, clk)
	attendanceService := attendance.NewServiceWithOutbox(
		db, attendanceRepo, studentRepo, outboxRepo, studentService, auditLogger, clk, cfg.Policy,
	)
	adjustmentService := adjustment.NewService(
		db, adjustmentRepo, studentRepo, outboxRepo, studentService, auditLogger, clk, cfg.Policy,
	)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	studentHandler := student.NewHandler(studentService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	adjustmentHandler := adjustment.NewHandler(adjustmentService)

	// --- Routes Registration ---
	rbac.RegisterRoutes(api, rbacHandler)
	student.RegisterRoutes(api, studentHandler, rbacService, rdb)
	attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb, zap.L())
	adjustment.RegisterRoutes(api, adjustmentHandler, rbacService, rdb, zap.L())

	return nil
}
