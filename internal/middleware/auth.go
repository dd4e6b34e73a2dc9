package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pollboard/internal/domain"
	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for the authenticated identity in context
	UserContextKey ContextKey = "user"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// AuthCookieName is the cookie the login handler sets and the auth gate
// falls back to when no Authorization header is present.
const AuthCookieName = "auth_token"

// Auth creates the authentication middleware. The credential is taken from
// the Authorization header (Bearer scheme) or the auth cookie; on success the
// decoded claims are attached to the request context.
func Auth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := extractToken(r)
			if appErr != nil {
				writeErrorResponse(w, appErr, logger)
				return
			}

			ctx := r.Context()
			claims, err := authService.VerifyToken(ctx, token)
			if err != nil {
				logger.WithError(err).Warn("Token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, claims)
			r = r.WithContext(ctx)

			logger.WithField("user_id", claims.UserID).Debug("User authenticated successfully")

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth validates a credential when one is present but lets anonymous
// requests through. Used on endpoints whose response depends on the viewer,
// like the poll list with private-poll filtering.
func OptionalAuth(authService service.AuthService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := extractToken(r)
			if appErr != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := authService.VerifyToken(ctx, token)
			if err != nil {
				logger.WithError(err).Warn("Token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), logger)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated identity, or nil for an
// anonymous request
func ClaimsFromContext(ctx context.Context) *domain.AuthClaims {
	if claims, ok := ctx.Value(UserContextKey).(*domain.AuthClaims); ok {
		return claims
	}
	return nil
}

// RequestID creates a middleware that adds a unique request ID to each request
func RequestID(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()

			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
			r = r.WithContext(ctx)

			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) (string, *errors.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", errors.NewAuthenticationError("Invalid authorization header format")
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return "", errors.NewAuthenticationError("Token is required")
		}
		return token, nil
	}

	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", errors.NewAuthenticationError("Authentication token is required")
}

// writeErrorResponse writes a structured error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Warn("Request rejected")

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(response)
}
