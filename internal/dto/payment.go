package dto

type StripeIntentRequest struct {
	OrderNumber string `json:"orderNumber"`
}

type StripeIntentResponse struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type RazorpayOrderRequest struct {
	OrderNumber string `json:"orderNumber"`
}

type RazorpayOrderResponse struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

type RazorpayVerifyRequest struct {
	OrderNumber      string `json:"orderId"`
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`
}

type RazorpayVerifyResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order,omitempty"`
}
