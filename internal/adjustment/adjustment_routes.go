package adjustment

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
	students := r.Group("/students/:id")
	{
		students.POST("/adjustments",
			middleware.RateLimitByUser(rdb, "adjustments_create", 30, time.Minute),
			middleware.RBACAuthorize(rbacService, "adjustment", "create"),
			middleware.Idempotency(rdb, logger),
			handler.Create,
		)

		students.GET("/adjustments",
			middleware.RBACAuthorizeScoped(rbacService, "adjustment", "read", "read_all", "id"),
			handler.List,
		)

		students.POST("/reconcile",
			middleware.RateLimitByUser(rdb, "adjustments_reconcile", 10, time.Minute),
			middleware.RBACAuthorize(rbacService, "adjustment", "create"),
			handler.Reconcile,
		)
	}
}
