package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sistema-asistencia/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour

	ctxIdempotencyResult = "idempotency_result"
)

type idempotentResult struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on POST requests.
// A key that is still being processed gets 409 PROCESSING. A nil client disables the check.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("middleware.idempotency")
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stored idempotentResult
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock unavailable, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Abort(c, http.StatusConflict, "PROCESSING", "This request is already being processed")
			return
		}
		defer rdb.Del(ctx, lockKey)

		c.Next()

		v, ok := c.Get(ctxIdempotencyResult)
		if !ok {
			return
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, payload, idempotencyResultTTL).Err(); err != nil {
			log.Warn("store idempotent response failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}

// RememberResponse marks a successful response for replay by Idempotency.
func RememberResponse(c *gin.Context, status int, data any) {
	body, err := json.Marshal(response.ApiEnvelope{Ok: true, Data: data})
	if err != nil {
		return
	}
	c.Set(ctxIdempotencyResult, idempotentResult{Status: status, Body: body})
}
