// ABOUTME: Per-client-IP rate limiting for the feed loading endpoint
// ABOUTME: Keeps one token bucket per IP and drops buckets idle for longer than the sweep interval

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/logging"
)

// MsgRateLimited is the error message for a rejected request.
const MsgRateLimited = "Too many requests. Please wait before loading another feed."

const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

type ipRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:  make(map[string]*limiterEntry),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdle {
		for key, e := range l.limiters {
			if now.Sub(e.lastAccessed) > limiterIdle {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastAccessed = now
	return e.limiter.AllowN(now, 1)
}

// RateLimit rejects clients that exceed perMinute requests with 429. A
// non-positive perMinute disables the limit.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPRateLimiter(perMinute, burst)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			logging.WithFields(logging.Fields{
				"remote_addr": c.ClientIP(),
				"request_id":  c.GetString(requestIDKey),
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody(feederr.Validation(MsgRateLimited)))
			return
		}
		c.Next()
	}
}
