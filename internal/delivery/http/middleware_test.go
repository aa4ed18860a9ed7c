package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dermalog/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "https://app.dermalog.io",
			allowedOrigins: []string{"https://app.dermalog.io"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "https://preview-42.dermalog.io",
			allowedOrigins: []string{"https://preview-*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"https://app.dermalog.io", "http://localhost:3000"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"https://app.dermalog.io"},
			want:           false,
		},
		{
			name:           "empty origin never matches a bare wildcard",
			origin:         "",
			allowedOrigins: []string{"*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedOrigin(tt.origin, tt.allowedOrigins))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{name: "allowed origin - GET request", origin: "http://localhost:3000", method: http.MethodGet, wantStatus: http.StatusOK, wantCORS: true},
		{name: "allowed origin - preflight", origin: "http://localhost:3000", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantCORS: true},
		{name: "disallowed origin", origin: "http://evil.com", method: http.MethodGet, wantStatus: http.StatusOK, wantCORS: false},
		{name: "no origin header", origin: "", method: http.MethodGet, wantStatus: http.StatusOK, wantCORS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORS {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, requestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(requestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps caller supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(requestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-123", w.Header().Get(requestIDHeader))
		assert.Equal(t, "trace-123", w.Body.String())
	})
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "/bad", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(RecoveryMiddleware(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(perMinute, burst int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(perMinute, burst))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	request := func(router *gin.Engine, ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("rejects requests beyond burst", func(t *testing.T) {
		router := newRouter(1, 2)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1"))
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		router := newRouter(1, 1)

		assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, request(router, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, request(router, "10.0.0.2"))
	})

	t.Run("disabled when limit is not positive", func(t *testing.T) {
		router := newRouter(0, 0)

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, request(router, "10.0.0.1"))
		}
	})
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	limiters := newIPRateLimiter(60, 1, 20*time.Millisecond)

	for i := 0; i < 1000; i++ {
		limiters.get(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Equal(t, 1000, limiters.size())

	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, 0, limiters.size(), "idle buckets should be evicted")
}

func TestIPRateLimiter_ActiveClientKeepsBucket(t *testing.T) {
	limiters := newIPRateLimiter(1, 1, 50*time.Millisecond)

	first := limiters.get("10.0.0.1")
	require.True(t, first.Allow())

	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		assert.Same(t, first, limiters.get("10.0.0.1"), "requests refresh the idle timer")
	}
	assert.False(t, limiters.get("10.0.0.1").Allow(), "spent tokens are not reset while active")
}

func TestRateLimitMiddleware_RejectionUsesRateLimitedError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(LoggerMiddleware(zap.New(core)), RateLimitMiddleware(1, 1))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"`+domain.ErrRateLimited.Error()+`"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].ContextMap()["errors"], domain.ErrRateLimited.Error())
}
