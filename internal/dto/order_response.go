package dto

import (
	"time"

	"boutique/internal/domain"
)

type OrderItemDTO struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	LineTotal float64 `json:"lineTotal"`
}

type StatusChangeDTO struct {
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderResponse struct {
	OrderNumber    string            `json:"orderNumber"`
	Status         string            `json:"status"`
	PaymentMethod  string            `json:"paymentMethod"`
	PaymentStatus  string            `json:"paymentStatus"`
	Subtotal       float64           `json:"subtotal"`
	Tax            float64           `json:"tax"`
	ShippingCost   float64           `json:"shippingCost"`
	Discount       float64           `json:"discount"`
	Total          float64           `json:"total"`
	Items          []OrderItemDTO    `json:"items"`
	History        []StatusChangeDTO `json:"history,omitempty"`
	TrackingNumber *string           `json:"trackingNumber,omitempty"`
	ConfirmedAt    *time.Time        `json:"confirmedAt,omitempty"`
	ShippedAt      *time.Time        `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time        `json:"deliveredAt,omitempty"`
	CancelledAt    *time.Time        `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// FromOrderItems maps stored line snapshots into the response shape.
func FromOrderItems(items []domain.OrderItem) []OrderItemDTO {
	out := make([]OrderItemDTO, len(items))
	for i, item := range items {
		out[i] = OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			ImageURL:  item.ImageURL,
			LineTotal: item.LineTotal,
		}
	}
	return out
}

func FromOrder(order *domain.Order) OrderResponse {
	history := make([]StatusChangeDTO, len(order.History))
	for i, change := range order.History {
		history[i] = StatusChangeDTO{
			Status:    change.Status,
			Actor:     change.Actor,
			Note:      change.Note,
			Timestamp: change.CreatedAt,
		}
	}

	return OrderResponse{
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		Subtotal:       order.Subtotal,
		Tax:            order.Tax,
		ShippingCost:   order.ShippingCost,
		Discount:       order.Discount,
		Total:          order.Total,
		Items:          FromOrderItems(order.Items),
		History:        history,
		TrackingNumber: order.TrackingNumber,
		ConfirmedAt:    order.ConfirmedAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
	}
}

type CreateOrderResponse struct {
	TraceID     string         `json:"traceId"`
	OrderNumber string         `json:"orderNumber"`
	Status      string         `json:"status"`
	Total       float64        `json:"total"`
	Items       []OrderItemDTO `json:"items"`
	Timestamp   time.Time      `json:"timestamp"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
