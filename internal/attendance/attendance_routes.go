package attendance

import (
	"time"

	"sistema-asistencia/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	attendances := r.Group("/attendances")
	{
		attendances.POST("/check-in",
			middleware.RateLimitByUser(rdb, "attendance_check_in", 10, time.Minute),
			middleware.RBACAuthorize(rbacService, "attendance", "check_in"),
			middleware.Idempotency(rdb, logger),
			handler.CheckIn,
		)

		attendances.POST("/check-out",
			middleware.RateLimitByUser(rdb, "attendance_check_out", 10, time.Minute),
			middleware.RBACAuthorize(rbacService, "attendance", "check_out"),
			middleware.Idempotency(rdb, logger),
			handler.CheckOut,
		)

		attendances.GET("/active",
			middleware.RateLimitByUser(rdb, "attendance_active", 120, time.Minute),
			middleware.RBACAuthorize(rbacService, "attendance", "check_out"),
			handler.GetActive,
		)

		attendances.GET("",
			middleware.RateLimitByUser(rdb, "attendance_list", 60, time.Minute),
			middleware.RBACAuthorizeScoped(rbacService, "attendance", "read", "read_all", ""),
			handler.List,
		)

		attendances.POST("/:id/force-check-out",
			middleware.RBACAuthorize(rbacService, "attendance", "force_close"),
			handler.ForceCheckOut,
		)

		maintenance := attendances.Group("/maintenance")
		maintenance.Use(middleware.RBACAuthorize(rbacService, "attendance", "maintain"))
		{
			maintenance.POST("", handler.RunMaintenance)
			maintenance.POST("/cap", handler.CapLongRunning)
			maintenance.POST("/stale", handler.CloseStale)
		}
	}
}
