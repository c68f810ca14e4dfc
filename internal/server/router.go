package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"boutique/internal/order"
	paymentcontroller "boutique/internal/payment/controller"
)

func NewRouter(orders *order.Module, payments *paymentcontroller.PaymentController, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateOrders.CreateOrder)
			r.Get("/{orderNumber}", orders.OrderStatus.GetOrder)
			r.Post("/{orderNumber}/cancel", orders.OrderStatus.CancelOrder)
			r.Patch("/{orderNumber}/status", orders.OrderStatus.UpdateStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/stripe/intent", payments.CreateStripeIntent)
			r.Post("/razorpay/order", payments.CreateRazorpayOrder)
			r.Post("/razorpay/verify", payments.VerifyRazorpayPayment)
		})

		r.Post("/webhooks/stripe", payments.StripeWebhook)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
