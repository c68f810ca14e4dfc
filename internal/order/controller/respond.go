package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeValidationError(w http.ResponseWriter, logger *zap.Logger, message string, details ...apperrors.ValidationDetail) {
	writeJSON(w, logger, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code, message string) {
	writeJSON(w, logger, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// writeUseCaseError maps the application error taxonomy onto HTTP.
// Internal causes are logged, never echoed to the client.
func writeUseCaseError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeValidationError(w, logger, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if su, ok := apperrors.IsSizeUnavailableError(err); ok {
		writeValidationError(w, logger, su.Error(), apperrors.ValidationDetail{
			Field:   su.Field,
			Message: fmt.Sprintf("size %q is not available for this product", su.Size),
		})
		return
	}
	if is, ok := apperrors.IsInsufficientStockError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", is.Error())
		return
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsDeadlockError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusConflict, "DEADLOCK", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidSignatureError(err); ok {
		writeErrorResponse(w, logger, traceID, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeErrorResponse(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

// requester pulls the caller identity injected by the auth layer in front of
// this service. An absent user id means guest.
type requester struct {
	UserID  *uint
	IsAdmin bool
}

func requesterFrom(r *http.Request) requester {
	var req requester

	if raw := r.Header.Get("X-User-ID"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			uid := uint(id)
			req.UserID = &uid
		}
	}
	req.IsAdmin = r.Header.Get("X-User-Role") == domain.RoleAdmin

	return req
}
