package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/config"
	"github.com/uwplan/planner-backend/internal/response"
)

// RateLimiter allows rate requests per client IP per interval. With a Redis
// client the count is a shared fixed window across instances; without one it
// is a per-process token bucket. Redis errors let the request through.
type RateLimiter struct {
	scope    string
	rate     int
	interval time.Duration
	rdb      *redis.Client
	log      zerolog.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

func NewRateLimiter(scope string, rate int, interval time.Duration, rdb *redis.Client, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		scope:    scope,
		rate:     rate,
		interval: interval,
		rdb:      rdb,
		log:      log.With().Str("component", "rate_limiter").Str("scope", scope).Logger(),
		visitors: make(map[string]*visitor),
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c, c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// Allow consumes one request for ip and reports whether it is within the limit.
func (rl *RateLimiter) Allow(c *gin.Context, ip string) bool {
	if rl.rate <= 0 {
		return true
	}
	if rl.rdb != nil {
		return rl.allowShared(c, ip)
	}
	return rl.allowLocal(ip, time.Now())
}

func (rl *RateLimiter) allowShared(c *gin.Context, ip string) bool {
	window := time.Now().UnixNano() / int64(rl.interval)
	key := config.CacheKey.RateLimitKey(rl.scope, ip, window)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(c.Request.Context(), key)
	pipe.Expire(c.Request.Context(), key, rl.interval)
	if _, err := pipe.Exec(c.Request.Context()); err != nil {
		rl.log.Warn().Err(err).Msg("Rate limit counter unavailable, allowing request")
		return true
	}
	return incr.Val() <= int64(rl.rate)
}

func (rl *RateLimiter) allowLocal(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: rl.rate, lastSeen: now}
		rl.visitors[ip] = v
	}

	if refill := int(now.Sub(v.lastSeen)/rl.interval) * rl.rate; refill > 0 {
		v.tokens = min(v.tokens+refill, rl.rate)
		v.lastSeen = now
	}

	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

// Cleanup drops local visitors idle for longer than three intervals. It runs
// until done is closed.
func (rl *RateLimiter) Cleanup(done <-chan struct{}) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastSeen) > 3*rl.interval {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}
