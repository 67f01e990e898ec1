package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/AKakshat1729/AGI-119/internal/logger"
)

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		// The route template keeps user ids out of the log.
		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panic", "route", c.FullPath(), "panic", r)
				respondError(c, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		c.Next()
	}
}

const limiterTTL = 10 * time.Minute

// clientLimiter keeps one token bucket per client IP. Idle buckets are
// swept on access.
type clientLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	log       *logger.Logger
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rpm, burst int, log *logger.Logger) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*clientBucket),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		now:      time.Now,
		log:      log,
	}
}

func (l *clientLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterTTL {
		for k, b := range l.limiters {
			if now.Sub(b.lastSeen) > limiterTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.limiters[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *clientLimiter) middleware() gin.HandlerFunc {
	retryAfter := "1"
	if l.limit > 0 {
		retryAfter = strconv.Itoa(max(1, int(1/float64(l.limit))))
	}
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			l.log.Warn("rate limited", "route", c.FullPath())
			c.Header("Retry-After", retryAfter)
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}
