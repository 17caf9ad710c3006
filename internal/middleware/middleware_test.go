package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)
	router.GET("/recipes", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	router := newTestRouter(Recovery())

	w := serve(router, httptest.NewRequest("GET", "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	router := newTestRouter()
	router.HandleMethodNotAllowed = true
	router.NoRoute(NotFound)
	router.NoMethod(MethodNotAllowed)

	w := serve(router, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, w.Body.String())

	w = serve(router, httptest.NewRequest("PATCH", "/recipes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(CORS([]string{"http://localhost:5173"}))

	req := httptest.NewRequest("OPTIONS", "/recipes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := serve(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/recipes", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(router, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAll(t *testing.T) {
	router := newTestRouter(CORS([]string{"*"}))

	req := httptest.NewRequest("GET", "/recipes", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := NewMemoryLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	router := newTestRouter(RateLimit(limiter))

	for i := 0; i < 2; i++ {
		w := serve(router, httptest.NewRequest("GET", "/recipes", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(router, httptest.NewRequest("GET", "/recipes", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitPerClient(t *testing.T) {
	limiter := NewMemoryLimiter(RateLimitConfig{Limit: 1, Window: time.Minute})
	router := newTestRouter(RateLimit(limiter))

	req := httptest.NewRequest("GET", "/recipes", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	req = httptest.NewRequest("GET", "/recipes", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	req = httptest.NewRequest("GET", "/recipes", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusTooManyRequests, serve(router, req).Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := newTestRouter(RateLimit(failingLimiter{}))

	w := serve(router, httptest.NewRequest("GET", "/recipes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestMemoryLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(RateLimitConfig{Limit: 2, Window: time.Minute})
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "client")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	d, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, d.Reset.After(now))

	now = now.Add(30 * time.Second)
	d, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterPrunesIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(RateLimitConfig{Limit: 5, Window: time.Minute})
	limiter.now = func() time.Time { return now }

	for i := 0; i < maxIdleVisitors; i++ {
		limiter.visitors[string(rune(i))] = &visitor{lastSeen: now.Add(-time.Hour)}
	}

	_, err := limiter.Allow(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Len(t, limiter.visitors, 1)
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(Metrics())
	matched := httpRequestsTotal.WithLabelValues("GET", "/recipes", "200")
	unmatched := httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	matchedBefore := testutil.ToFloat64(matched)
	unmatchedBefore := testutil.ToFloat64(unmatched)

	w := serve(router, httptest.NewRequest("GET", "/recipes", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(router, httptest.NewRequest("GET", "/recipes", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, httptest.NewRequest("GET", "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, matchedBefore+2, testutil.ToFloat64(matched))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
}
