package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pollboard/internal/domain"
	"pollboard/internal/middleware"
	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

type AuthHandler struct {
	auth        service.AuthService
	environment string
	logger      *logger.Logger
}

func NewAuthHandler(auth service.AuthService, environment string, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		environment: environment,
		logger:      logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if details := validateRegisterRequest(&req); details != nil {
		respondError(w, r, errors.NewValidationError("User validation failed", details), h.logger)
		return
	}

	user, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if details := validateLoginRequest(&req); details != nil {
		respondError(w, r, errors.NewValidationError("Login validation failed", details), h.logger)
		return
	}

	result, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Login successful",
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User logged out successfully",
	})
}
