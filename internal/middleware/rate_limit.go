package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/pageza/recipebox/backend/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Decision is the outcome of a single rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimit returns a Gin middleware that enforces limiter per client IP.
// If the limiter itself fails the request is let through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("Warning: rate limit check failed: %v", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			rateLimitRejects.Inc()
			retryAfter := int(time.Until(decision.Reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Error: fmt.Sprintf("rate limit exceeded, retry in %ds", retryAfter),
			})
			return
		}

		c.Next()
	}
}

// RedisLimiter is a fixed window limiter shared by every server using the same Redis
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:recipes"
	}
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow counts the request against the current window
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: remaining,
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// maxIdleVisitors is the map size above which idle visitors are pruned
const maxIdleVisitors = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-process token bucket limiter, one bucket per key.
// Buckets refill at Limit per Window and hold at most Limit tokens.
type MemoryLimiter struct {
	mu       sync.Mutex
	config   RateLimitConfig
	every    rate.Limit
	visitors map[string]*visitor
	now      func() time.Time
}

// NewMemoryLimiter creates a limiter that keeps its state in process memory
func NewMemoryLimiter(config RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		config:   config,
		every:    rate.Every(config.Window / time.Duration(config.Limit)),
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow takes one token from the caller's bucket
func (ml *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	v, ok := ml.visitors[key]
	if !ok {
		if len(ml.visitors) >= maxIdleVisitors {
			ml.prune(now)
		}
		v = &visitor{limiter: rate.NewLimiter(ml.every, ml.config.Limit)}
		ml.visitors[key] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// time until one full token is available again
	var wait time.Duration
	if tokens < 1 {
		wait = time.Duration((1 - tokens) / float64(ml.every) * float64(time.Second))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     ml.config.Limit,
		Remaining: remaining,
		Reset:     now.Add(wait),
	}, nil
}

// prune must be called with the lock held
func (ml *MemoryLimiter) prune(now time.Time) {
	for key, v := range ml.visitors {
		if now.Sub(v.lastSeen) > ml.config.Window {
			delete(ml.visitors, key)
		}
	}
}
