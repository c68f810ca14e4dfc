package payment

import (
	"go.uber.org/zap"

	"boutique/internal/config"
	"boutique/internal/order"
	"boutique/internal/payment/controller"
	"boutique/internal/payment/service"
)

func NewModule(cfg *config.Config, orders *order.Module, logger *zap.Logger) *controller.PaymentController {
	stripeSvc := service.NewStripeService(
		cfg.Stripe.APIKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.Currency,
		orders.Orders,
		orders.Lifecycle,
		logger,
	)

	razorpaySvc := service.NewRazorpayService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.Currency,
		service.NewHTTPGatewayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		orders.Orders,
		orders.Lifecycle,
		logger,
	)

	return controller.NewPaymentController(stripeSvc, razorpaySvc, logger)
}
