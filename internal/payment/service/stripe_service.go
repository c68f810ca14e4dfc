package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeOrderStore is the order lookup surface the Stripe adapter needs:
// resolving an order for intent creation and finding it again when the
// webhook only carries the intent id.
type StripeOrderStore interface {
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByStripeIntentID(ctx context.Context, intentID string) (*domain.Order, error)
	SetStripeIntentID(ctx context.Context, orderID uint, intentID string) error
}

// PaymentLifecycle is the single convergence point for both gateways: every
// verified outcome lands on ConfirmPayment or MarkPaymentFailed.
type PaymentLifecycle interface {
	ConfirmPayment(ctx context.Context, orderNumber, actor, note string) (*domain.Order, error)
	MarkPaymentFailed(ctx context.Context, orderNumber, actor, note string) (*domain.Order, error)
}

// StripeService bridges the intent-based gateway into the order lifecycle.
type StripeService struct {
	intents       stripeIntentAPI
	orders        StripeOrderStore
	lifecycle     PaymentLifecycle
	webhookSecret string
	currency      string
	logger        *zap.Logger
}

func NewStripeService(apiKey, webhookSecret, currency string, orders StripeOrderStore, lifecycle PaymentLifecycle, logger *zap.Logger) *StripeService {
	sc := client.New(apiKey, nil)
	return &StripeService{
		intents:       sc.PaymentIntents,
		orders:        orders,
		lifecycle:     lifecycle,
		webhookSecret: webhookSecret,
		currency:      currency,
		logger:        logger,
	}
}

// CreateIntent creates a payment intent for an order and records the intent
// id so the webhook can find its way back.
func (s *StripeService) CreateIntent(ctx context.Context, orderNumber string) (*dto.StripeIntentResponse, error) {
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

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.Metadata = map[string]string{"orderNumber": order.OrderNumber}
	params.SetIdempotencyKey("order-intent-" + order.OrderNumber)

	intent, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	if err := s.orders.SetStripeIntentID(ctx, order.ID, intent.ID); err != nil {
		return nil, err
	}

	s.logger.Info("stripe payment intent created",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("paymentIntent", intent.ID),
		zap.Int64("amount", amount),
	)

	return &dto.StripeIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.currency,
	}, nil
}

// HandleWebhook verifies the gateway signature and converges the event onto
// the order lifecycle. A bad signature mutates nothing. Unknown event types
// are acknowledged and ignored.
func (s *StripeService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := webhook.ConstructEvent(payload, signatureHeader, s.webhookSecret)
	if err != nil {
		s.logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		return apperrors.NewInvalidSignatureError("stripe")
	}

	return s.handleEvent(ctx, event)
}

func (s *StripeService) handleEvent(ctx context.Context, event stripe.Event) error {
	switch string(event.Type) {
	case "payment_intent.succeeded":
		return s.routeIntentEvent(ctx, event, true)
	case "payment_intent.payment_failed":
		return s.routeIntentEvent(ctx, event, false)
	default:
		s.logger.Debug("stripe event ignored", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *StripeService) routeIntentEvent(ctx context.Context, event stripe.Event, succeeded bool) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("stripe: decoding payment intent event: %w", err)
	}

	order, err := s.orders.FindByStripeIntentID(ctx, intent.ID)
	if err != nil {
		return err
	}

	if succeeded {
		_, err = s.lifecycle.ConfirmPayment(ctx, order.OrderNumber, "stripe", "Payment confirmed via Stripe webhook")
	} else {
		_, err = s.lifecycle.MarkPaymentFailed(ctx, order.OrderNumber, "stripe", "Payment failed at Stripe")
	}
	return err
}
