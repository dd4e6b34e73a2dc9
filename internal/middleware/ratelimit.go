package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

// RateLimit creates the fixed-window rate limiting middleware guarding the
// unauthenticated auth endpoints. The client is identified by the
// authenticated user ID when present, otherwise by remote IP.
func RateLimit(limiter service.RateLimiter, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientIdentifier(r)

			decision, err := limiter.Allow(r.Context(), clientID)
			if err != nil {
				logger.WithError(err).Error("Rate limit check failed")
				writeErrorResponse(w, errors.NewInternalError("Failed to check rate limit", err), logger)
				return
			}

			if !decision.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())))
				writeErrorResponse(w, errors.NewRateLimitError("Too many requests"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdentifier prefers the authenticated user ID over the network
// address so a logged-in client is throttled consistently across addresses.
func clientIdentifier(r *http.Request) string {
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		return claims.UserID
	}

	// chi's RealIP middleware rewrites RemoteAddr from the forwarding
	// headers; strip the port when one is present.
	addr := r.RemoteAddr
	if strings.HasPrefix(addr, "[") {
		if idx := strings.LastIndex(addr, "]:"); idx != -1 {
			return addr[1:idx]
		}
		return strings.Trim(addr, "[]")
	}
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
