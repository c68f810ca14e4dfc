package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

const maxOrderItems = 100

type CreateOrderUseCase interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID *uint) (*domain.Order, error)
}

type CreateOrderController struct {
	useCase CreateOrderUseCase
	logger  *zap.Logger
}

func NewCreateOrderController(useCase CreateOrderUseCase, logger *zap.Logger) *CreateOrderController {
	return &CreateOrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CreateOrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeValidationError(w, logger, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCreateOrderRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		writeValidationError(w, logger, ve.Message, ve.Details...)
		return
	}

	identity := requesterFrom(r)

	order, err := c.useCase.CreateOrder(r.Context(), req, identity.UserID)
	if err != nil {
		writeUseCaseError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusCreated, dto.CreateOrderResponse{
		TraceID:     traceID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.Total,
		Items:       dto.FromOrderItems(order.Items),
		Timestamp:   time.Now().UTC(),
	})
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}
	if len(req.Items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(maxOrderItems),
		})
	}

	for idx, item := range req.Items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "each product reference must be a positive integer",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be at least 1",
			})
		}
		if item.Size == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].size",
				Message: "size is required",
			})
		}
		if item.Price != nil && *item.Price < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].price",
				Message: "price must be non-negative",
			})
		}
	}

	if req.PaymentMethod == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod is required",
		})
	}

	if req.ShippingAddress.Line1 == "" || req.ShippingAddress.City == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "shippingAddress",
			Message: "shippingAddress must include at least line1 and city",
		})
	}

	if req.Discount < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "discount",
			Message: "discount must be non-negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
