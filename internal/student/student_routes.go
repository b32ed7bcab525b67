package student

import (
	"time"

	"sistema-asistencia/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	students := r.Group("/students")
	{
		students.GET("",
			middleware.RateLimitByUser(rdb, "students_list", 30, time.Minute),
			middleware.RBACAuthorize(rbacService, "student", "read_all"),
			handler.GetAll,
		)

		students.GET("/:id",
			middleware.RateLimitByUser(rdb, "students_get", 60, time.Minute),
			middleware.RBACAuthorizeScoped(rbacService, "student", "read", "read_all", "id"),
			handler.GetByID,
		)

		students.GET("/:id/progress",
			middleware.RateLimitByUser(rdb, "students_progress", 120, time.Minute),
			middleware.RBACAuthorizeScoped(rbacService, "student", "read", "read_all", "id"),
			handler.GetProgress,
		)
	}
}
