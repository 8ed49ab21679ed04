package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/platform/logger"
)

// Limiter decides whether one more request for key fits its quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware limits requests per authenticated user. It must run
// after Authenticate.
type RateLimitMiddleware struct {
	limiter    Limiter
	retryAfter time.Duration
}

// NewRateLimitMiddleware creates a RateLimitMiddleware. retryAfter is
// reported to throttled clients and is normally the limiter's window.
func NewRateLimitMiddleware(limiter Limiter, retryAfter time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, retryAfter: retryAfter}
}

// Limit rejects requests over quota with 429. Requests are also rejected,
// with 503, when the limiter cannot be consulted.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		allowed, err := m.limiter.Allow(r.Context(), userID.String())
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Service temporarily unavailable", err)
			return
		}
		if !allowed {
			if secs := int(m.retryAfter.Seconds()); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			logger.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("user_id", userID.String()),
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}
