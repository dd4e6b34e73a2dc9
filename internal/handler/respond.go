package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"pollboard/internal/middleware"
	apperrors "pollboard/pkg/errors"
	"pollboard/pkg/logger"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes a structured error envelope. Unexpected errors are
// collapsed to a generic internal message; the original cause is only
// visible in the server-side log.
func respondError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("Internal server error", err)
	}

	entry := log.WithField("error_type", string(appErr.Type))
	if appErr.Internal != nil {
		entry = entry.WithError(appErr.Internal)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.Error(appErr.Message)
	} else {
		entry.Warn(appErr.Message)
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if requestID, ok := r.Context().Value(middleware.RequestIDContextKey).(string); ok {
		response.Error.RequestID = requestID
	}

	respondJSON(w, appErr.StatusCode, response)
}
