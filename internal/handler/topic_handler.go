package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pollboard/internal/domain"
	"pollboard/internal/service"
	"pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

type TopicHandler struct {
	topics service.TopicService
	logger *logger.Logger
}

func NewTopicHandler(topics service.TopicService, logger *logger.Logger) *TopicHandler {
	return &TopicHandler{topics: topics, logger: logger}
}

// Create handles POST /api/topics
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if msg := validateTopicName(req.Name); msg != "" {
		respondError(w, r, errors.NewValidationError("Topic validation failed", map[string]interface{}{
			"name": msg,
		}), h.logger)
		return
	}

	topic, err := h.topics.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Topic created successfully",
		"topic":   topic,
	})
}

// List handles GET /api/topics
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.List(r.Context())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, topics)
}

// Get handles GET /api/topics/{topicId}
func (h *TopicHandler) Get(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicId")

	topic, err := h.topics.Get(r.Context(), topicID)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, topic)
}

// Update handles PUT /api/topics/{topicId}
func (h *TopicHandler) Update(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicId")

	var req domain.UpdateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
		if msg := validateTopicName(trimmed); msg != "" {
			respondError(w, r, errors.NewValidationError("Topic validation failed", map[string]interface{}{
				"name": msg,
			}), h.logger)
			return
		}
	}

	topic, err := h.topics.Update(r.Context(), topicID, &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Topic updated successfully",
		"topic":   topic,
	})
}

// Delete handles DELETE /api/topics/{topicId}
func (h *TopicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "topicId")

	if err := h.topics.Delete(r.Context(), topicID); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Topic deleted successfully",
	})
}
