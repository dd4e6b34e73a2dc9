package handler

import (
	"context"
	"net/http"
	"time"

	"pollboard/pkg/database"
	"pollboard/pkg/logger"
	"pollboard/pkg/redis"
)

type HealthHandler struct {
	db     *database.PostgresDB
	redis  *redis.Client
	logger *logger.Logger
}

func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, logger: logger}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	if h.db != nil {
		if err := h.db.Health(ctx); err != nil {
			h.logger.WithError(err).Error("Database health check failed")
			checks["database"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "healthy"
		}
	}

	if h.redis != nil {
		if err := h.redis.Health(ctx); err != nil {
			h.logger.WithError(err).Error("Redis health check failed")
			checks["redis"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "healthy"
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}
