package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

type OrderStatusUseCase interface {
	UpdateStatus(ctx context.Context, orderNumber string, req dto.StatusUpdateRequest, actor string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderNumber string, requesterID *uint, isAdmin bool, reason string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderNumber string, requesterID *uint, isAdmin bool) (*domain.Order, error)
}

// OrderStatusController serves the admin status console and the owner-facing
// cancel and detail endpoints. Admin privilege itself is asserted upstream;
// this layer only reads the identity headers that middleware sets.
type OrderStatusController struct {
	useCase OrderStatusUseCase
	logger  *zap.Logger
}

func NewOrderStatusController(useCase OrderStatusUseCase, logger *zap.Logger) *OrderStatusController {
	return &OrderStatusController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderStatusController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderNumber := chi.URLParam(r, "orderNumber")
	identity := requesterFrom(r)

	order, err := c.useCase.GetOrder(r.Context(), orderNumber, identity.UserID, identity.IsAdmin)
	if err != nil {
		writeUseCaseError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, dto.FromOrder(order))
}

func (c *OrderStatusController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	identity := requesterFrom(r)
	if !identity.IsAdmin {
		writeErrorResponse(w, logger, traceID, http.StatusForbidden, "FORBIDDEN", "admin privilege required")
		return
	}

	var req dto.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeValidationError(w, logger, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Status == "" {
		writeValidationError(w, logger, "status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := c.useCase.UpdateStatus(r.Context(), orderNumber, req, "admin")
	if err != nil {
		writeUseCaseError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, dto.FromOrder(order))
}

func (c *OrderStatusController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	// The reason is optional, so an empty body is fine.
	var req dto.CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeValidationError(w, logger, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	orderNumber := chi.URLParam(r, "orderNumber")
	identity := requesterFrom(r)

	order, err := c.useCase.CancelOrder(r.Context(), orderNumber, identity.UserID, identity.IsAdmin, req.Reason)
	if err != nil {
		writeUseCaseError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, dto.FromOrder(order))
}
