// Package ratelimit throttles abuse-prone endpoints such as payment intent
// creation and minting.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/codecrypto/cbt-marketplace/internal/shared/errors"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

// ClientIP buckets requests by client address.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*entry
	rate    rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a limiter allowing rps requests per second with the given burst.
func New(rps float64, burst int, logger *slog.Logger) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		buckets: map[string]*entry{},
		rate:    rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		logger:  logger,
	}
}

// Allow charges one token to key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than the idle window.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.idle)
	removed := 0
	for key, e := range l.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over budget with a 429 problem.
func (l *Limiter) Middleware(key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientIP
	}
	return func(c *gin.Context) {
		k := key(c)
		if l.Allow(k) {
			c.Next()
			return
		}
		if l.logger != nil {
			l.logger.WarnContext(c.Request.Context(), "rate limit exceeded",
				slog.String("key", k), slog.String("path", c.FullPath()))
		}
		c.Header("Retry-After", "1")
		apierrors.Respond(c, apierrors.ErrTooManyRequests.WithDetail("request budget exhausted, retry shortly"))
	}
}
