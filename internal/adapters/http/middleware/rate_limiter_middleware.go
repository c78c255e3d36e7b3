// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const rateLimitExceededMessage = "Rate limit exceeded. Please try again later."

const unknownClient = "unknown"

type rateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// NewRateLimiterMiddleware aplica a regra de janela fixa por cliente. clock nil usa o relógio do sistema.
func NewRateLimiterMiddleware(limiter ports.RateLimiter, rule domain.RateLimitRule, clock ports.Clock) func(http.Handler) http.Handler {
	now := time.Now
	if clock != nil {
		now = clock.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.CheckAndConsume(r.Context(), ClientIdentifier(r), rule)
			writeRateLimitHeaders(w, result)

			if !result.Success {
				writeTooManyRequests(w, result.RetryAfter(now()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIdentifier usa o primeiro IP de X-Forwarded-For, depois X-Real-IP e,
// na falta de ambos, "unknown".
func ClientIdentifier(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		first, _, _ := strings.Cut(xForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" {
		return xRealIP
	}

	return unknownClient
}

func writeRateLimitHeaders(w http.ResponseWriter, result domain.RateLimitResult) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeTooManyRequests(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rateLimitedResponse{Error: rateLimitExceededMessage, RetryAfter: retryAfter})
}
