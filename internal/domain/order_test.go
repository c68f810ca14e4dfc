package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Creation(t *testing.T) {
	createdAt := time.Now()
	userID := uint(7)
	tracking := "TRK-123"

	order := Order{
		ID:             1,
		OrderNumber:    "ORD-20260101-AB12CD34",
		UserID:         &userID,
		CustomerName:   "John Doe",
		CustomerEmail:  "john@example.com",
		CustomerPhone:  "1234567890",
		PaymentMethod:  "CARD",
		PaymentStatus:  PaymentStatusPending,
		Subtotal:       100.00,
		Tax:            8.00,
		ShippingCost:   0.00,
		Discount:       5.00,
		Total:          103.00,
		Status:         OrderStatusPending,
		TrackingNumber: &tracking,
		CreatedAt:      createdAt,
	}

	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, "ORD-20260101-AB12CD34", order.OrderNumber)
	assert.Equal(t, &userID, order.UserID)
	assert.Equal(t, "John Doe", order.CustomerName)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 103.00, order.Total)
	assert.Equal(t, &tracking, order.TrackingNumber)
	assert.Equal(t, createdAt, order.CreatedAt)
}

func TestOrder_IsGuest(t *testing.T) {
	guest := Order{UserID: nil}
	assert.True(t, guest.IsGuest())

	userID := uint(3)
	owned := Order{UserID: &userID}
	assert.False(t, owned.IsGuest())
}

func TestOrder_OwnedBy(t *testing.T) {
	userID := uint(3)
	order := Order{UserID: &userID}

	assert.True(t, order.OwnedBy(3))
	assert.False(t, order.OwnedBy(4))

	guest := Order{UserID: nil}
	assert.False(t, guest.OwnedBy(3))
}

func TestCanTransition_HappyPath(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusProcessing))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransition_Cancellation(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusPaymentFailed, OrderStatusCancelled))

	// Shipped orders can no longer be cancelled, only refunded.
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))
}

func TestCanTransition_NoSkippingForward(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusShipped))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusConfirmed, OrderStatusDelivered))
}

func TestCanTransition_ProcessingCanStepBack(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusConfirmed))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusProcessing))
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	terminals := []string{OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded}
	targets := []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusPaymentFailed, OrderStatusRefunded,
	}

	for _, from := range terminals {
		for _, to := range targets {
			assert.False(t, CanTransition(from, to), "expected %s -> %s to be rejected", from, to)
		}
	}
}

func TestCanTransition_PaymentFailedRecovery(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPaymentFailed, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusPaymentFailed, OrderStatusRefunded))
	assert.False(t, CanTransition(OrderStatusPaymentFailed, OrderStatusShipped))
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("unknown", OrderStatusConfirmed))
	assert.False(t, CanTransition(OrderStatusPending, "unknown"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.True(t, IsTerminalStatus(OrderStatusRefunded))

	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusShipped))
	assert.False(t, IsTerminalStatus(OrderStatusPaymentFailed))
	assert.False(t, IsTerminalStatus("unknown"))
}

func TestIsOrderStatus(t *testing.T) {
	assert.True(t, IsOrderStatus(OrderStatusPending))
	assert.True(t, IsOrderStatus(OrderStatusPaymentFailed))
	assert.False(t, IsOrderStatus("PENDING"))
	assert.False(t, IsOrderStatus(""))
}
