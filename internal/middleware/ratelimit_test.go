package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pollboard/internal/domain"
	"pollboard/internal/service"
)

type stubLimiter struct {
	decision *service.RateLimitDecision
	err      error
	gotID    string
}

func (l *stubLimiter) Allow(ctx context.Context, clientID string) (*service.RateLimitDecision, error) {
	l.gotID = clientID
	return l.decision, l.err
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{decision: &service.RateLimitDecision{Allowed: true, Count: 1}}

	called := false
	handler := RateLimit(limiter, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "192.168.1.1", limiter.gotID)
}

func TestRateLimit_Denied(t *testing.T) {
	limiter := &stubLimiter{decision: &service.RateLimitDecision{
		Allowed:    false,
		Count:      6,
		RetryAfter: 42 * time.Second,
	}}

	handler := RateLimit(limiter, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit")
}

func TestRateLimit_PrefersUserID(t *testing.T) {
	limiter := &stubLimiter{decision: &service.RateLimitDecision{Allowed: true}}

	handler := RateLimit(limiter, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	claims := &domain.AuthClaims{UserID: "user-1"}
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "user-1", limiter.gotID)
}

func TestClientIdentifier_IPv6(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:54321"
	assert.Equal(t, "2001:db8::1", clientIdentifier(req))

	req.RemoteAddr = "[2001:db8::1]"
	assert.Equal(t, "2001:db8::1", clientIdentifier(req))
}
