package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"carrental/internal/config"
)

const (
	defaultBurst = 5

	// limiterIdleTTL is how long a client's limiter survives without requests.
	limiterIdleTTL = 10 * time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

type rateLimiter struct {
	limiters  sync.Map // client ip -> *limiterEntry
	cfg       config.RateLimitConfig
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		cfg:     cfg,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)

	if v, ok := l.limiters.Load(key); ok {
		e := v.(*limiterEntry)
		e.lastSeen.Store(now.UnixNano())
		return e.lim
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	e := &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)}
	e.lastSeen.Store(now.UnixNano())
	actual, loaded := l.limiters.LoadOrStore(key, e)
	if loaded {
		e = actual.(*limiterEntry)
		e.lastSeen.Store(now.UnixNano())
	}
	return e.lim
}

// sweep drops limiters idle for longer than idleTTL. It runs at most once
// per idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) || !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit rejects requests beyond cfg.RPS per client IP with 429.
// RPS <= 0 disables limiting.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	l := newRateLimiter(cfg)
	return func(c *gin.Context) {
		if !l.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
