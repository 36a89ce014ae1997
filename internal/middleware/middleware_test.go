package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	return newRouterBehind(nil, handlers...)
}

func newRouterBehind(proxies []string, handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(proxies); err != nil {
		panic(err)
	}
	r.Use(handlers...)
	r.GET("/api/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func doRequest(r http.Handler, path, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	logger, _ := logtest.NewNullLogger()

	t.Run("rate limit not exceeded", func(t *testing.T) {
		r := newRouter(RateLimit(NewMemoryRateLimiter(5, time.Minute), 5, logger))
		w := doRequest(r, "/api/test", "192.168.1.1:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		r := newRouter(RateLimit(NewMemoryRateLimiter(1, time.Minute), 1, logger))
		w := doRequest(r, "/api/test", "192.168.1.2:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(r, "/api/test", "192.168.1.2:12345", nil)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// A different client is unaffected.
		w = doRequest(r, "/api/test", "192.168.1.3:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forwarded for from trusted proxy", func(t *testing.T) {
		r := newRouterBehind([]string{"192.168.1.0/24"}, RateLimit(NewMemoryRateLimiter(1, time.Minute), 1, logger))
		hdr := map[string]string{"X-Forwarded-For": "10.0.0.1"}
		assert.Equal(t, http.StatusOK, doRequest(r, "/api/test", "192.168.1.4:1", hdr).Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "/api/test", "192.168.1.5:1", hdr).Code)
	})

	t.Run("rotating forwarded for from untrusted peer", func(t *testing.T) {
		limiter := NewMemoryRateLimiter(2, time.Minute)
		r := newRouter(RateLimit(limiter, 2, logger))
		allowed := 0
		for i := 0; i < 50; i++ {
			hdr := map[string]string{
				"X-Forwarded-For": fmt.Sprintf("1.2.3.%d", i),
				"X-Real-IP":       fmt.Sprintf("5.6.7.%d", i),
			}
			if doRequest(r, "/api/test", "10.0.0.9:4000", hdr).Code == http.StatusOK {
				allowed++
			}
		}
		assert.Equal(t, 2, allowed)
		assert.Equal(t, 1, limiter.Keys())
	})

	t.Run("limiter failure lets request through", func(t *testing.T) {
		r := newRouter(RateLimit(failingLimiter{}, 1, logger))
		assert.Equal(t, http.StatusOK, doRequest(r, "/api/test", "192.168.1.6:1", nil).Code)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (RateLimitResult, error) {
	return RateLimitResult{}, errors.New("redis down")
}

func TestMemoryRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		res, err := l.Allow(context.Background(), "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, _ := l.Allow(context.Background(), "ip")
	assert.False(t, res.Allowed)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	now = now.Add(61 * time.Second)
	res, _ = l.Allow(context.Background(), "ip")
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestMemoryRateLimiter_DropsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		_, err := l.Allow(context.Background(), fmt.Sprintf("ip-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 10, l.Keys())

	now = now.Add(2 * time.Minute)
	_, err := l.Allow(context.Background(), "ip-new")
	require.NoError(t, err)
	assert.Equal(t, 1, l.Keys())
}

func TestRedisRateLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	l := NewRedisRateLimiter(client, 2, time.Minute)
	key := "test-" + time.Now().Format(time.RFC3339Nano)
	for i := 0; i < 2; i++ {
		res, err := l.Allow(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := newRouter(RequestLogger(logger), Recovery(logger))

	w := doRequest(r, "/api/test", "127.0.0.1:1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/api/test", hook.LastEntry().Data["path"])

	w = doRequest(r, "/api/panic", "127.0.0.1:1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 500, hook.LastEntry().Data["status"])
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"http://dashboard.test"}))

	w := doRequest(r, "/api/test", "127.0.0.1:1", map[string]string{"Origin": "http://dashboard.test"})
	assert.Equal(t, "http://dashboard.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = doRequest(r, "/api/test", "127.0.0.1:1", map[string]string{"Origin": "http://evil.test"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = newRouter(CORS(nil))
	w = doRequest(r, "/api/test", "127.0.0.1:1", map[string]string{"Origin": "http://any.test"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
