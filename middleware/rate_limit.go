package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ZainyAct/browser-memory/internal/metrics"
	"github.com/ZainyAct/browser-memory/internal/model/response/wrapper"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const rateWindow = time.Minute

type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// localLimiter keeps one token bucket per user for when the shared store is down.
// A bucket idle for a whole window has refilled, so it is dropped and recreated on demand.
type localLimiter struct {
	mu        sync.Mutex
	perMin    int
	limiters  map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(perMinute int) *localLimiter {
	return &localLimiter{
		perMin:   perMinute,
		limiters: make(map[string]*localBucket),
		now:      time.Now,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= rateWindow {
		l.sweep(now)
	}

	bucket, ok := l.limiters[key]
	if !ok {
		bucket = &localBucket{
			limiter: rate.NewLimiter(rate.Every(rateWindow/time.Duration(l.perMin)), l.perMin),
		}
		l.limiters[key] = bucket
	}
	bucket.lastSeen = now

	return bucket.limiter.AllowN(now, 1)
}

func (l *localLimiter) sweep(now time.Time) {
	for key, bucket := range l.limiters {
		if now.Sub(bucket.lastSeen) >= rateWindow {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

func (l *localLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// IngestRateLimit allows perMinute requests per user in a fixed window kept in store.
// Must run after an auth middleware. perMinute <= 0 disables limiting.
func IngestRateLimit(store RateLimitStore, perMinute int, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	local := newLocalLimiter(perMinute)

	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		key := "ratelimit:ingest:" + userID

		allowed := false
		if store != nil {
			var err error
			allowed, err = store.CheckRateLimit(c.Request.Context(), key, perMinute, rateWindow)
			if err != nil {
				logger.Debug("rate limit store unavailable, using local limiter", slog.Any("error", err))
				allowed = local.allow(userID)
			}
		} else {
			allowed = local.allow(userID)
		}

		if !allowed {
			m.RateLimited()
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, wrapper.ErrorWrapper{
				Message: "Rate limit exceeded",
				Success: false,
			})
			return
		}

		c.Next()
	}
}
