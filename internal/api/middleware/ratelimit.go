package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/pkg/metrics"
)

const msgRateLimited = "too many requests"

// Limiter decides whether one more request of key fits the budget
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Name() string
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// RateLimit rejects requests over budget with 429.
// With failOpen a limiter error lets the request through.
func RateLimit(limiter Limiter, retryAfter time.Duration, failOpen bool, m *metrics.Metrics, logger Logger) func(http.Handler) http.Handler {
	seconds := strconv.Itoa(int(retryAfter.Seconds()))
	if retryAfter < time.Second {
		seconds = "1"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientKey(r))
			if err != nil {
				logger.Warn("RateLimit: %s limiter error: %v", limiter.Name(), err)
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				handlers.RespondUnavailable(w, retryAfter)
				return
			}
			if !allowed {
				m.ObserveRateLimited(limiter.Name())
				w.Header().Set("Retry-After", seconds)
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter fixed window shared by every instance of the service
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

func (l *RedisLimiter) Name() string {
	return "redis"
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		if count, err = strconv.ParseInt(v, 10, 64); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unexpected redis script result type %T", res)
	}
	return count <= l.limit, nil
}

// LocalLimiter per-client token buckets kept in process memory
type LocalLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows limit requests per window with the same burst
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLimiter{
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		visitors: map[string]*visitor{},
		ttl:      3 * window,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Name() string {
	return "local"
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
		l.evict(now)
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// evict drops clients idle for longer than ttl
func (l *LocalLimiter) evict(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}
}

func clientKey(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		parts := strings.Split(ip, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
