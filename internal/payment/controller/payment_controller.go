package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

// webhook payloads are small; anything larger is not ours.
const maxWebhookBody = 1 << 16

type StripeGateway interface {
	CreateIntent(ctx context.Context, orderNumber string) (*dto.StripeIntentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type RazorpayGateway interface {
	CreateGatewayOrder(ctx context.Context, orderNumber string) (*dto.RazorpayOrderResponse, error)
	VerifyPayment(ctx context.Context, req dto.RazorpayVerifyRequest) (*domain.Order, error)
}

// PaymentController exposes the two gateway integrations: the intent/webhook
// flow and the checkout-callback flow.
type PaymentController struct {
	stripe   StripeGateway
	razorpay RazorpayGateway
	logger   *zap.Logger
}

func NewPaymentController(stripe StripeGateway, razorpay RazorpayGateway, logger *zap.Logger) *PaymentController {
	return &PaymentController{stripe: stripe, razorpay: razorpay, logger: logger}
}

func (c *PaymentController) CreateStripeIntent(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.StripeIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, logger, traceID, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if req.OrderNumber == "" {
		writeError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "orderNumber is required")
		return
	}

	resp, err := c.stripe.CreateIntent(r.Context(), req.OrderNumber)
	if err != nil {
		writeGatewayError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, resp)
}

// StripeWebhook always acknowledges with 200 so the gateway does not retry
// forever; failures are logged and, on a bad signature, nothing is mutated.
func (c *PaymentController) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.With(zap.String("traceId", uuid.NewString()))

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		logger.Warn("failed to read webhook body", zap.Error(err))
		writeJSON(w, logger, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if err := c.stripe.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		logger.Warn("stripe webhook not processed", zap.Error(err))
	}

	writeJSON(w, logger, http.StatusOK, map[string]bool{"received": true})
}

func (c *PaymentController) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RazorpayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, logger, traceID, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if req.OrderNumber == "" {
		writeError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "orderNumber is required")
		return
	}

	resp, err := c.razorpay.CreateGatewayOrder(r.Context(), req.OrderNumber)
	if err != nil {
		writeGatewayError(w, logger, traceID, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, resp)
}

func (c *PaymentController) VerifyRazorpayPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.NewString()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RazorpayVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, logger, traceID, http.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return
	}
	if req.GatewayOrderID == "" || req.GatewayPaymentID == "" || req.Signature == "" {
		writeError(w, logger, traceID, http.StatusBadRequest, "VALIDATION_ERROR", "gatewayOrderId, gatewayPaymentId and signature are required")
		return
	}

	order, err := c.razorpay.VerifyPayment(r.Context(), req)
	if err != nil {
		if _, ok := apperrors.IsInvalidSignatureError(err); ok {
			writeJSON(w, logger, http.StatusBadRequest, dto.RazorpayVerifyResponse{
				Success: false,
				Message: "payment signature verification failed",
			})
			return
		}
		writeGatewayError(w, logger, traceID, err)
		return
	}

	resp := dto.FromOrder(order)
	writeJSON(w, logger, http.StatusOK, dto.RazorpayVerifyResponse{
		Success: true,
		Order:   &resp,
	})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, code, message string) {
	writeJSON(w, logger, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func writeGatewayError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		writeError(w, logger, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		writeError(w, logger, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		writeError(w, logger, traceID, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidSignatureError(err); ok {
		writeError(w, logger, traceID, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
		return
	}

	logger.Error("unexpected gateway error", zap.Error(err))
	writeError(w, logger, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}
