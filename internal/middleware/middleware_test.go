package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assettracker/internal/rate_limiter"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct {
	err   error
	calls int
}

func (p *fakePinger) Ping(ctx context.Context) error {
	p.calls++
	return p.err
}

type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (rate_limiter.Result, error) {
	return rate_limiter.Result{}, errors.New("redis down")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	return router
}

func serve(router *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckOK(t *testing.T) {
	pinger := &fakePinger{}
	router := newRouter()
	router.GET("/health", NewHealthChecker(pinger, "1.2.3", zap.NewNop()).HealthCheckMiddleware())

	w := serve(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.LastChecked.IsZero())
}

func TestHealthCheckDegradedAndCached(t *testing.T) {
	pinger := &fakePinger{err: errors.New("db gone")}
	checker := NewHealthChecker(pinger, "1.0.0", zap.NewNop())
	router := newRouter()
	router.GET("/health", checker.HealthCheckMiddleware())

	w := serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)

	pinger.err = nil
	w = serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1, pinger.calls)

	checker.lastResponseTime = time.Now().Add(-checker.cacheDuration)
	w = serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, pinger.calls)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := newRouter(RecoveryMiddleware(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	router := newRouter(TimeoutMiddleware(time.Second))
	var hasDeadline bool
	router.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	serve(router, http.MethodGet, "/", nil)

	assert.True(t, hasDeadline)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newRouter(CORS([]string{"https://app.example.com/"}))
	router.GET("/api/assets", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/api/assets", http.Header{"Origin": {"https://app.example.com"}})
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(router, http.MethodGet, "/api/assets", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardAndPreflight(t *testing.T) {
	router := newRouter(CORS([]string{"*"}))
	router.GET("/api/assets", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodOptions, "/api/assets", http.Header{"Origin": {"http://localhost:5173"}})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRateLimitRejectsOverQuota(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := newRouter(RateLimit(rate_limiter.NewRateLimiter(ctx, 1, time.Minute), zap.NewNop()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := newRouter(RateLimit(failingLimiter{}, zap.NewNop()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	router := newRouter(RequestLogger(zap.NewNop()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := serve(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusTeapot, w.Code)
}
