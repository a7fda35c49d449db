package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"topicbook/internal/config"
)

type memoryCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func (m *memoryCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	return redis.NewIntResult(m.counts[key], nil)
}

func (m *memoryCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if m.expires == nil {
		m.expires = make(map[string]time.Duration)
	}
	m.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine(RequestID())
	rr := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	rid := rr.Header().Get("X-Request-Id")
	require.Len(t, rid, 36)
	require.Equal(t, rid, rr.Body.String())
}

func TestRequestIDPassthrough(t *testing.T) {
	r := newEngine(RequestID(), RequestLogger())
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := serve(r, req)
	require.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
	require.Equal(t, "abc-123", rr.Body.String())
}

func TestRequestIDRejectsUnsafeHeader(t *testing.T) {
	r := newEngine(RequestID())
	for _, in := range []string{"has space", "line\nbreak", strings.Repeat("x", 129)} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-Id", in)
		rr := serve(r, req)
		rid := rr.Header().Get("X-Request-Id")
		require.NotEqual(t, in, rid)
		_, err := uuid.Parse(rid)
		require.NoError(t, err, rid)
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	log.SetLevel(log.InfoLevel)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	r.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "no") })
	r.GET("/boom", func(c *gin.Context) { c.String(http.StatusInternalServerError, "err") })

	cases := []struct {
		path  string
		level log.Level
		route string
	}{
		{"/ok", log.InfoLevel, "/ok"},
		{"/bad", log.WarnLevel, "/bad"},
		{"/boom", log.ErrorLevel, "/boom"},
		{"/missing", log.WarnLevel, "unmatched"},
	}
	for _, tc := range cases {
		hook.Reset()
		serve(r, httptest.NewRequest(http.MethodGet, tc.path, nil))
		entry := hook.LastEntry()
		require.NotNil(t, entry, tc.path)
		require.Equal(t, tc.level, entry.Level, tc.path)
		require.Equal(t, tc.route, entry.Data["route"], tc.path)
		require.NotEmpty(t, entry.Data["request_id"], tc.path)
	}
	hook.Reset()
	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, 4, hook.LastEntry().Data["bytes"])
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	counter := &memoryCounter{}
	r := newEngine(RateLimit(counter, "mut", 2, 30*time.Second, ByClientIP))

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	}
	rr := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "30", rr.Header().Get("Retry-After"))

	require.Len(t, counter.expires, 1)
	for k, d := range counter.expires {
		require.Equal(t, "rl:mut:192.0.2.1", k)
		require.Equal(t, 30*time.Second, d)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	counter := &memoryCounter{err: errors.New("connection refused")}
	r := newEngine(RateLimit(counter, "mut", 1, time.Minute, ByClientIP))
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := newEngine(CORS(config.CORSConfig{AllowAllOrigins: true}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://anything.example")
	rr := serve(r, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	pre := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	pre.Header.Set("Origin", "http://anything.example")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	rr = serve(r, pre)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	r := newEngine(CORS(config.CORSConfig{AllowAllOrigins: false, AllowedOrigins: []string{"https://app.example.com"}}))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := serve(r, req)
	require.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = serve(r, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rr := serve(newEngine(SecurityHeaders()), httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
}
