package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pollboard/internal/domain"
	"pollboard/internal/middleware"
	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

type PollHandler struct {
	polls  service.PollService
	logger *logger.Logger
}

func NewPollHandler(polls service.PollService, logger *logger.Logger) *PollHandler {
	return &PollHandler{polls: polls, logger: logger}
}

// Create handles POST /api/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var req domain.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if details := validateCreatePollRequest(&req); details != nil {
		respondError(w, r, errors.NewValidationError("Poll validation failed", details), h.logger)
		return
	}

	poll, err := h.polls.Create(r.Context(), claims.UserID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Poll created successfully",
		"poll":    poll,
	})
}

// List handles GET /api/polls. Private polls are only visible to their
// creator; anonymous viewers see public polls only.
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		viewerID = claims.UserID
	}

	polls, err := h.polls.List(r.Context(), viewerID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, polls)
}

// ListByCreator handles GET /api/polls/user/{userId}
func (h *PollHandler) ListByCreator(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	polls, err := h.polls.ListByCreator(r.Context(), userID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, polls)
}

// Get handles GET /api/polls/{pollId}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollId")

	poll, err := h.polls.Get(r.Context(), pollID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, poll)
}

// Update handles PUT /api/polls/{pollId}
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}
	pollID := chi.URLParam(r, "pollId")

	var req domain.UpdatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if details := validateUpdatePollRequest(&req); details != nil {
		respondError(w, r, errors.NewValidationError("Poll validation failed", details), h.logger)
		return
	}

	poll, err := h.polls.Update(r.Context(), claims.UserID, pollID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Poll updated successfully",
		"poll":    poll,
	})
}

// Delete handles DELETE /api/polls/{pollId}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}
	pollID := chi.URLParam(r, "pollId")

	if err := h.polls.Delete(r.Context(), claims.UserID, pollID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Poll deleted successfully",
	})
}

// Vote handles POST /api/polls/{pollId}/vote/{valueName}
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollId")
	valueName := chi.URLParam(r, "valueName")

	poll, err := h.polls.Vote(r.Context(), pollID, valueName)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, domain.VoteResponse{
		Message: fmt.Sprintf("Vote for '%s' added successfully", valueName),
		Poll:    poll,
	})
}

// Results handles GET /api/polls/{pollId}/results (polling endpoint)
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollId")

	results, err := h.polls.Results(r.Context(), pollID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	etag := generateETag(results)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=10")
	respondJSON(w, http.StatusOK, results)
}

func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}
