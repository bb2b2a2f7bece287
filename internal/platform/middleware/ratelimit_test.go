package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.allow("1.2.3.4", now))
	}
	assert.False(t, limiter.allow("1.2.3.4", now))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	start := time.Now()

	assert.True(t, limiter.allow("1.2.3.4", start))
	assert.True(t, limiter.allow("1.2.3.4", start))
	assert.False(t, limiter.allow("1.2.3.4", start.Add(time.Second)))

	// Both earlier requests fall out of the window.
	assert.True(t, limiter.allow("1.2.3.4", start.Add(2*time.Minute)))
}

func TestRateLimiterKeysByClientIP(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Now()

	assert.True(t, limiter.allow("1.2.3.4", now))
	assert.True(t, limiter.allow("5.6.7.8", now))
	assert.False(t, limiter.allow("1.2.3.4", now))
}

func TestRateLimiterHandlerReturns429(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/check-admin-status", nil)
	req.RemoteAddr = "1.2.3.4:5000"
	handler.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, second.Body.String())
}
