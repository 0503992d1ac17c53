package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/parasjain182005/Travel-Website/pkg/httputil"
)

// RateLimitConfig configures RateLimiter.
type RateLimitConfig struct {
	// Requests allowed per Window for one key.
	Requests int
	Window   time.Duration
	// KeyFunc derives the limiter key; defaults to KeyByIP.
	KeyFunc func(*http.Request) string
}

// RateLimiter enforces a fixed budget per client using Redis (GCRA via
// redis_rate) so limits are shared across replicas. When Redis is nil or
// failing it falls back to an in-process token bucket per key.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	limit    redis_rate.Limit
	keyFunc  func(*http.Request) string
	fallback *localLimiter
	logger   *slog.Logger
}

// NewRateLimiter creates a limiter. rdb may be nil.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig, logger *slog.Logger) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	rl := &RateLimiter{
		limit: redis_rate.Limit{
			Rate:   cfg.Requests,
			Burst:  cfg.Requests,
			Period: cfg.Window,
		},
		keyFunc:  cfg.KeyFunc,
		fallback: newLocalLimiter(),
		logger:   logger,
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Handler is the middleware.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.allow(r.Context(), rl.keyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
				Message: "Too many requests from this IP, please try again later",
				Error:   &httputil.ErrorResponse{Code: "RATE_LIMITED"},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.redis != nil {
		res, err := rl.redis.Allow(ctx, key, rl.limit)
		if err == nil {
			if res.Allowed == 0 {
				rateLimitedTotal.WithLabelValues("redis").Inc()
			}
			return res
		}
		rl.logger.WarnContext(ctx, "redis rate limiter unavailable, using local limiter",
			slog.String("error", err.Error()),
		)
	}

	res := rl.fallback.allow(key, rl.limit)
	if res.Allowed == 0 {
		rateLimitedTotal.WithLabelValues("local").Inc()
	}
	return res
}

// KeyByIP keys on the client IP. Mount chi's RealIP before this middleware
// when running behind a proxy.
func KeyByIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ratelimit:ip:" + ip
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key, evicting idle keys lazily.
type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

const localEntryTTL = 30 * time.Minute

func newLocalLimiter() *localLimiter {
	return &localLimiter{entries: make(map[string]*limiterEntry), lastSweep: time.Now()}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > localEntryTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastSeen) > localEntryTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		every := rate.Every(limit.Period / time.Duration(max(limit.Rate, 1)))
		e = &limiterEntry{limiter: rate.NewLimiter(every, limit.Burst)}
		l.entries[key] = e
	}
	e.lastSeen = now

	res := &redis_rate.Result{Limit: limit}
	if r := e.limiter.ReserveN(now, 1); r.OK() && r.DelayFrom(now) == 0 {
		res.Allowed = 1
		res.Remaining = int(e.limiter.TokensAt(now))
		return res
	} else if r.OK() {
		res.RetryAfter = r.DelayFrom(now)
		r.CancelAt(now)
	}
	return res
}

// String describes the configured budget, e.g. "100 requests per 15m0s".
func (rl *RateLimiter) String() string {
	return fmt.Sprintf("%d requests per %s", rl.limit.Rate, rl.limit.Period)
}
