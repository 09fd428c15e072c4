package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// RateLimiter applies a fixed one-minute window per client IP. The API
// has no authentication, so this is the only brake on the write
// endpoints. Without Redis the limiter is a pass-through.
type RateLimiter struct {
	redis *redis.Client
	limit int
}

func NewRateLimiter(redisClient *redis.Client, perMinute int) *RateLimiter {
	return &RateLimiter{redis: redisClient, limit: perMinute}
}

// Middleware limits mutating requests; bind it to the write routes only
// so dashboard polling is unaffected.
func (r *RateLimiter) Middleware() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !r.allow(e.Request.Context(), e.RealIP()) {
			return e.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Rate limit exceeded. Please try again later.",
			})
		}
		return e.Next()
	}
}

// allow reports whether ip still fits in the current window. Any Redis
// failure fails open: the limiter must not take the API down with Redis.
func (r *RateLimiter) allow(ctx context.Context, ip string) bool {
	if r.redis == nil || r.limit <= 0 {
		return true
	}

	key := fmt.Sprintf("ratelimit:%s", ip)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		if err := r.redis.Expire(ctx, key, time.Minute).Err(); err != nil {
			// a counter with no TTL would limit this IP forever
			slog.Warn("rate limit window not armed, dropping counter", "ip", ip, "error", err)
			r.redis.Del(ctx, key)
			return true
		}
	}

	return count <= int64(r.limit)
}
