package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-booking/internal/config"
)

func limiterConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_user_route",
		Prefix:         "rl",
	}
}

func runLimited(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/classes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestTokenBucketExhaustsAndRejects(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewTokenBucket(limiterConfig(2), rdb)

	rec := runLimited(t, mw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = runLimited(t, mw)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runLimited(t, mw)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	cfg := limiterConfig(1)
	cfg.Enabled = false
	mw := NewTokenBucket(cfg, nil)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, runLimited(t, mw).Code)
	}
}

func TestTokenBucketFailsOpenOnRedisError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mw := NewTokenBucket(limiterConfig(1), rdb)
	mr.Close()

	// With Redis unreachable every request must still get through.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, runLimited(t, mw).Code)
	}
}
