package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, strings.Repeat("CS 135 ", 1000)) })
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterLocalBucket(t *testing.T) {
	rl := NewRateLimiter("validate", 2, time.Minute, nil, zerolog.Nop())
	r := newEngine(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(r, "/small", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/small", nil).Code)

	w := get(r, "/small", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter("validate", 1, time.Minute, nil, zerolog.Nop())
	now := time.Now()

	assert.True(t, rl.allowLocal("10.0.0.1", now))
	assert.False(t, rl.allowLocal("10.0.0.1", now.Add(30*time.Second)))
	assert.True(t, rl.allowLocal("10.0.0.2", now))
	assert.True(t, rl.allowLocal("10.0.0.1", now.Add(61*time.Second)))
}

func TestRateLimiterFailsOpenWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()

	rl := NewRateLimiter("validate", 1, time.Minute, rdb, zerolog.Nop())
	r := newEngine(rl.Middleware())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/small", nil).Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	r := newEngine(NewRateLimiter("validate", 0, time.Minute, nil, zerolog.Nop()).Middleware())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/small", nil).Code)
	}
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	r := newEngine(Brotli())

	w := get(r, "/large", map[string]string{"Accept-Encoding": "gzip, br;q=1.0"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))

	body, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("CS 135 ", 1000), string(body))
}

func TestBrotliLeavesSmallBodies(t *testing.T) {
	r := newEngine(Brotli())

	w := get(r, "/small", map[string]string{"Accept-Encoding": "br"})
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	w = get(r, "/large", nil)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestCacheControl(t *testing.T) {
	w := get(newEngine(CacheControl(300)), "/small", nil)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))

	w = get(newEngine(CacheControl(0)), "/small", nil)
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}

func TestRateLimiterCleanupDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter("validate", 1, 10*time.Millisecond, nil, zerolog.Nop())
	rl.allowLocal("10.0.0.1", time.Now().Add(-time.Hour))

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		rl.Cleanup(done)
		close(stopped)
	}()

	assert.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.visitors) == 0
	}, time.Second, 5*time.Millisecond)

	close(done)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Cleanup did not return after done was closed")
	}
}
