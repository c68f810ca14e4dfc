package domain

import "time"

const (
	OrderStatusPending       = "pending"
	OrderStatusConfirmed     = "confirmed"
	OrderStatusProcessing    = "processing"
	OrderStatusShipped       = "shipped"
	OrderStatusDelivered     = "delivered"
	OrderStatusCancelled     = "cancelled"
	OrderStatusPaymentFailed = "payment_failed"
	OrderStatusRefunded      = "refunded"
)

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// orderTransitions is the full status graph. A status missing from a target
// list cannot be reached from that source; terminal statuses map to nothing.
var orderTransitions = map[string][]string{
	OrderStatusPending:       {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusPaymentFailed, OrderStatusRefunded},
	OrderStatusConfirmed:     {OrderStatusProcessing, OrderStatusCancelled, OrderStatusPaymentFailed, OrderStatusRefunded},
	OrderStatusProcessing:    {OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled, OrderStatusPaymentFailed, OrderStatusRefunded},
	OrderStatusShipped:       {OrderStatusDelivered, OrderStatusPaymentFailed, OrderStatusRefunded},
	OrderStatusPaymentFailed: {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusDelivered:     {},
	OrderStatusCancelled:     {},
	OrderStatusRefunded:      {},
}

func IsOrderStatus(status string) bool {
	_, ok := orderTransitions[status]
	return ok
}

func IsTerminalStatus(status string) bool {
	next, ok := orderTransitions[status]
	return ok && len(next) == 0
}

func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint
	OrderNumber     string
	UserID          *uint
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress Address
	BillingAddress  Address
	PaymentMethod   string
	PaymentStatus   string

	StripePaymentIntentID *string
	RazorpayOrderID       *string

	Subtotal     float64
	Tax          float64
	ShippingCost float64
	Discount     float64
	Total        float64

	Status         string
	TrackingNumber *string
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time

	Items   []OrderItem
	History []StatusChange

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o Order) IsGuest() bool {
	return o.UserID == nil
}

// OwnedBy reports whether the given account may act on this order as its
// owner. Guest orders have no owner.
func (o Order) OwnedBy(userID uint) bool {
	return o.UserID != nil && *o.UserID == userID
}

// StatusChange is one append-only entry in an order's status history.
type StatusChange struct {
	ID        uint
	OrderID   uint
	Status    string
	Actor     string
	Note      string
	CreatedAt time.Time
}
