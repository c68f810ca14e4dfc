package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

// GatewayOrderCreator creates the gateway-side order that checkout hands to
// the Razorpay client widget. Amounts are in minor units.
type GatewayOrderCreator interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
}

type RazorpayOrderStore interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByRazorpayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	SetRazorpayOrderID(ctx context.Context, orderID uint, gatewayOrderID string) error
}

// RazorpayService handles the checkout-callback gateway: order creation up
// front, HMAC verification of the payment handshake afterwards.
type RazorpayService struct {
	gateway   GatewayOrderCreator
	orders    RazorpayOrderStore
	lifecycle PaymentLifecycle
	keyID     string
	keySecret string
	currency  string
	logger    *zap.Logger
}

func NewRazorpayService(keyID, keySecret, currency string, gateway GatewayOrderCreator, orders RazorpayOrderStore, lifecycle PaymentLifecycle, logger *zap.Logger) *RazorpayService {
	return &RazorpayService{
		gateway:   gateway,
		orders:    orders,
		lifecycle: lifecycle,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		logger:    logger,
	}
}

// CreateGatewayOrder registers the order with the gateway and stores the
// returned gateway order id for later verification.
func (s *RazorpayService) CreateGatewayOrder(ctx context.Context, orderNumber string) (*dto.RazorpayOrderResponse, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == domain.PaymentStatusPaid {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s is already paid", orderNumber))
	}
	if domain.IsTerminalStatus(order.Status) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order %s is %s", orderNumber, order.Status))
	}

	amount := int64(math.Round(order.Total * 100))

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amount, s.currency, order.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create gateway order: %w", err)
	}

	if err := s.orders.SetRazorpayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		return nil, err
	}

	s.logger.Info("razorpay order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("gatewayOrderId", gatewayOrderID),
		zap.Int64("amount", amount),
	)

	return &dto.RazorpayOrderResponse{
		GatewayOrderID: gatewayOrderID,
		Amount:         amount,
		Currency:       s.currency,
		KeyID:          s.keyID,
	}, nil
}

// VerifyPayment checks the handshake signature from the checkout callback
// and confirms the order when it matches. A bad signature mutates nothing.
func (s *RazorpayService) VerifyPayment(ctx context.Context, req dto.RazorpayVerifyRequest) (*domain.Order, error) {
	expected := SignPayment(s.keySecret, req.GatewayOrderID, req.GatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		s.logger.Warn("razorpay signature verification failed",
			zap.String("gatewayOrderId", req.GatewayOrderID),
		)
		return nil, apperrors.NewInvalidSignatureError("razorpay")
	}

	order, err := s.orders.FindByRazorpayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if req.OrderNumber != "" && req.OrderNumber != order.OrderNumber {
		return nil, apperrors.NewConflictError("payment does not belong to the given order")
	}

	return s.lifecycle.ConfirmPayment(ctx, order.OrderNumber, "razorpay", "Payment verified via checkout callback")
}

// SignPayment computes the checkout handshake signature:
// hex(HMAC-SHA256(secret, "<gatewayOrderId>|<gatewayPaymentId>")).
func SignPayment(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
