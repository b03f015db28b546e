package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/businesses/1/availability", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewRedisLimiter(rdb, 2, time.Minute, "test")
	h := RateLimit(limiter, time.Second, false, nil, logger.Nop())(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)

	rec := doRequest(h, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// other clients have their own window
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2").Code)

	// the window expires
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
}

func TestRedisLimiter_SetsExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewRedisLimiter(rdb, 5, 30*time.Second, "")
	allowed, err := limiter.Allow(context.Background(), "client")
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.True(t, mr.Exists("rl:client"))
	assert.Equal(t, 30*time.Second, mr.TTL("rl:client"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingLimiter) Name() string { return "failing" }

func TestRateLimit_LimiterFailure(t *testing.T) {
	t.Run("fail open", func(t *testing.T) {
		h := RateLimit(failingLimiter{}, time.Second, true, nil, logger.Nop())(okHandler())
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
	})

	t.Run("fail closed", func(t *testing.T) {
		h := RateLimit(failingLimiter{}, 2*time.Second, false, nil, logger.Nop())(okHandler())
		rec := doRequest(h, "10.0.0.1")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	})
}

func TestLocalLimiter(t *testing.T) {
	limiter := NewLocalLimiter(3, time.Minute)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, _ := limiter.Allow(ctx, "a")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "b")
	assert.True(t, allowed)

	// one token refills every 20s
	now = now.Add(21 * time.Second)
	allowed, _ = limiter.Allow(ctx, "a")
	assert.True(t, allowed)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4000"
	assert.Equal(t, "192.168.1.5", clientKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientKey(req))
}
