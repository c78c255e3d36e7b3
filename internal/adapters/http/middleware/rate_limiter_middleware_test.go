package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubLimiter struct {
	result      domain.RateLimitResult
	identifiers []string
	rules       []domain.RateLimitRule
}

func (l *stubLimiter) CheckAndConsume(_ context.Context, identifier string, rule domain.RateLimitRule) domain.RateLimitResult {
	l.identifiers = append(l.identifiers, identifier)
	l.rules = append(l.rules, rule)
	return l.result
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "forwarded for first entry", headers: map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, want: "203.0.113.7"},
		{name: "forwarded for wins over real ip", headers: map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.1"}, want: "203.0.113.7"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.1"}, want: "198.51.100.1"},
		{name: "empty forwarded entry falls through", headers: map[string]string{"X-Forwarded-For": " , 10.0.0.1", "X-Real-IP": "198.51.100.1"}, want: "198.51.100.1"},
		{name: "no headers", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIdentifier(req))
		})
	}
}

func TestRateLimiterMiddleware_Allows(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := &stubLimiter{result: domain.RateLimitResult{Success: true, Limit: 10, Remaining: 9, ResetAt: now.Add(time.Minute)}}
	rule := domain.RateLimitRule{Requests: 10, Window: time.Minute}
	handler := NewRateLimiterMiddleware(limiter, rule, fixedClock{now})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(now.Add(time.Minute).Unix(), 10), rec.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, []string{"1.2.3.4"}, limiter.identifiers)
	assert.Equal(t, rule, limiter.rules[0])
}

func TestRateLimiterMiddleware_Denies(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := &stubLimiter{result: domain.RateLimitResult{Success: false, Limit: 10, Remaining: 0, ResetAt: now.Add(42*time.Second + 100*time.Millisecond)}}
	handler := NewRateLimiterMiddleware(limiter, domain.DefaultRateLimitRule, fixedClock{now})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "43", rec.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body rateLimitedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, rateLimitExceededMessage, body.Error)
	assert.Equal(t, 43, body.RetryAfter)
	assert.Equal(t, []string{"unknown"}, limiter.identifiers)
}

func TestRateLimiterMiddleware_NilLimiterPassesThrough(t *testing.T) {
	handler := NewRateLimiterMiddleware(nil, domain.DefaultRateLimitRule, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
