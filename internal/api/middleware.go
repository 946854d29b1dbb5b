package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// requestLogger logs one line per request. Health and metrics probes are
// logged at debug.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			switch {
			case r.URL.Path == "/health" || r.URL.Path == "/metrics":
				log.Debug("request", fields...)
			case ww.Status() >= http.StatusInternalServerError:
				log.Error("request", fields...)
			default:
				log.Info("request", fields...)
			}
		})
	}
}

// limiterIdle is how long a client's bucket may go unused before it is
// evicted. An evicted client starts again with a full bucket.
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiter hands out one token bucket per client address. Buckets
// idle for longer than idle are pruned, at most once per idle window.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastPrune time.Time
	limiters  map[string]*limiterEntry
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limit:    limit,
		burst:    burst,
		idle:     limiterIdle,
		now:      time.Now,
		limiters: make(map[string]*limiterEntry),
	}
}

func (c *clientLimiter) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.lastPrune.IsZero() {
		c.lastPrune = now
	} else if now.Sub(c.lastPrune) >= c.idle {
		c.prune(now.Add(-c.idle))
		c.lastPrune = now
	}

	e, ok := c.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[key] = e
	}
	e.seen = now
	return e.lim
}

// prune drops buckets last used before cutoff. Callers hold c.mu.
func (c *clientLimiter) prune(cutoff time.Time) int {
	removed := 0
	for key, e := range c.limiters {
		if e.seen.Before(cutoff) {
			delete(c.limiters, key)
			removed++
		}
	}
	return removed
}

// rateLimit rejects requests above perSecond per client with 429. A
// non-positive rate disables limiting. Health checks are never limited.
func rateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	cl := newClientLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			if !cl.get(clientKey(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
