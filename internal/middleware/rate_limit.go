package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"sistema-asistencia/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type KeyedRateLimiter struct {
	keys map[string]*rate.Limiter
	mu   *sync.Mutex
	r    rate.Limit
	b    int
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		keys: make(map[string]*rate.Limiter),
		mu:   &sync.Mutex{},
		r:    r,
		b:    b,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.keys[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.keys[key] = limiter
	}

	return limiter
}

// RedisWindowLimiter counts requests per key in a fixed window shared by every API replica.
type RedisWindowLimiter struct {
	rdb    *redis.Client
	name   string
	limit  int
	window time.Duration
}

func NewRedisWindowLimiter(rdb *redis.Client, name string, limit int, window time.Duration) *RedisWindowLimiter {
	return &RedisWindowLimiter{rdb: rdb, name: name, limit: limit, window: window}
}

func (l *RedisWindowLimiter) key(subject string, now time.Time) string {
	bucket := now.UnixNano() / int64(l.window)
	return fmt.Sprintf("ratelimit:%s:%s:%s", l.name, subject, strconv.FormatInt(bucket, 10))
}

// Allow returns the remaining budget in the current window.
func (l *RedisWindowLimiter) Allow(ctx context.Context, subject string, now time.Time) (bool, int, error) {
	key := l.key(subject, now)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}

// RateLimitByUser allows limit requests per window for each authenticated user.
// Counters live in Redis; without Redis, or while Redis is failing, an in-process token bucket applies.
func RateLimitByUser(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	fallback := NewKeyedRateLimiter(rate.Every(window/time.Duration(limit)), limit)
	var shared *RedisWindowLimiter
	if rdb != nil {
		shared = NewRedisWindowLimiter(rdb, name, limit, window)
	}

	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		if shared != nil {
			allowed, remaining, err := shared.Allow(c.Request.Context(), userID, time.Now())
			if err == nil {
				c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
				if !allowed {
					response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests from this user")
					return
				}
				c.Next()
				return
			}
			zap.L().Named("middleware.rate_limit").Warn("redis rate limit unavailable, using local limiter",
				zap.String("limiter", name),
				zap.Error(err),
			)
		}

		if !fallback.GetLimiter(userID).Allow() {
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests from this user")
			return
		}
		c.Next()
	}
}
