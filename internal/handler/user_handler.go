package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pollboard/internal/domain"
	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

type UserHandler struct {
	users  service.UserService
	logger *logger.Logger
}

func NewUserHandler(users service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{userId}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{userId}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if details := validateUpdateUserRequest(&req); details != nil {
		respondError(w, r, errors.NewValidationError("User validation failed", details), h.logger)
		return
	}

	user, err := h.users.Update(r.Context(), userID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete handles DELETE /api/users/{userId}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.users.Delete(r.Context(), userID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted successfully",
	})
}
