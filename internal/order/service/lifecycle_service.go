package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"boutique/internal/domain"
	apperrors "boutique/internal/errors"
	"boutique/internal/infrastructure/mysql"
	"boutique/internal/order/events"

	"go.uber.org/zap"
)

type OrderRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, order *domain.Order) (uint, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx mysql.DBTX, id uint, from, to string) error
	UpdatePaymentStatus(ctx context.Context, tx mysql.DBTX, id uint, paymentStatus string) error
	SetConfirmedAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error
	SetShippedAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error
	SetDeliveredAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error
	SetCancelledAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error
	SetTrackingNumber(ctx context.Context, tx mysql.DBTX, id uint, trackingNumber string) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, item domain.OrderItem) (uint, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type StatusHistoryRepository interface {
	Append(ctx context.Context, tx mysql.DBTX, change domain.StatusChange) (uint, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]domain.StatusChange, error)
}

// StockLedger is the atomic per-size stock primitive. Decrement carries its
// own sufficiency check; it is never a separate read plus write.
type StockLedger interface {
	DecrementStock(ctx context.Context, tx mysql.DBTX, productID int, size string, quantity int) error
	RestoreStock(ctx context.Context, tx mysql.DBTX, productID int, size string, quantity int) error
}

// LifecycleService owns the order status state machine and the coupling
// between order state and inventory state. Every transition is all-or-nothing:
// status, timestamps and the history append commit together or not at all.
type LifecycleService struct {
	db        mysql.TxBeginner
	orders    OrderRepository
	items     OrderItemRepository
	history   StatusHistoryRepository
	stock     StockLedger
	publisher events.Publisher
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewLifecycleService(
	db mysql.TxBeginner,
	orders OrderRepository,
	items OrderItemRepository,
	history StatusHistoryRepository,
	stock StockLedger,
	publisher events.Publisher,
	logger *zap.Logger,
	txTimeout time.Duration,
) *LifecycleService {
	return &LifecycleService{
		db:        db,
		orders:    orders,
		items:     items,
		history:   history,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// CreateOrder persists a normalized order and reserves its inventory. The
// order row, its line items and every per-size stock decrement run in one
// transaction: if any size cannot cover its quantity the whole create rolls
// back and the caller gets InsufficientStock.
func (s *LifecycleService) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// MySQL ignores the rollback once the tx has committed.
	defer tx.Rollback()

	order.OrderNumber = generateOrderNumber(time.Now().UTC())
	order.Status = domain.OrderStatusPending
	order.PaymentStatus = domain.PaymentStatusPending

	// Stock first: a failed decrement aborts before anything else is written.
	for _, item := range order.Items {
		if err := s.stock.DecrementStock(txCtx, tx, item.ProductID, item.Size, item.Quantity); err != nil {
			s.logger.Warn("stock decrement failed, rolling back order",
				zap.String("orderNumber", order.OrderNumber),
				zap.Int("productId", item.ProductID),
				zap.String("size", item.Size),
				zap.Error(err),
			)
			return nil, err
		}
	}

	orderID, err := s.orders.Insert(txCtx, tx, order)
	if err != nil {
		s.logger.Error("failed to insert order", zap.Error(err))
		return nil, err
	}
	order.ID = orderID

	for i := range order.Items {
		order.Items[i].OrderID = orderID
		itemID, err := s.items.Insert(txCtx, tx, order.Items[i])
		if err != nil {
			s.logger.Error("failed to insert order item", zap.Uint("orderId", orderID), zap.Error(err))
			return nil, err
		}
		order.Items[i].ID = itemID
	}

	if _, err := s.history.Append(txCtx, tx, domain.StatusChange{
		OrderID: orderID,
		Status:  domain.OrderStatusPending,
		Actor:   "customer",
		Note:    "Order placed",
	}); err != nil {
		s.logger.Error("failed to append status history", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit order creation", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.Uint("orderId", orderID),
		zap.Int("itemCount", len(order.Items)),
		zap.Float64("total", order.Total),
	)

	s.publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderCreated,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Total:       order.Total,
		OccurredAt:  time.Now().UTC(),
	})

	return order, nil
}

// Transition moves an order to target with the side effects that status
// implies. Attempts outside the allowed graph fail with InvalidTransition and
// mutate nothing. Cancellation goes through Cancel, which also restores stock.
func (s *LifecycleService) Transition(ctx context.Context, orderNumber, target, actor, note string, trackingNumber *string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if target == domain.OrderStatusCancelled {
		return s.cancelOrder(ctx, order, actor, note)
	}

	if !domain.CanTransition(order.Status, target) {
		return nil, apperrors.NewInvalidTransitionError(order.Status, target)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Guarded on the status we read: a concurrent transition that got there
	// first makes this update a no-op and the whole tx rolls back.
	if err := s.orders.UpdateStatus(txCtx, tx, order.ID, order.Status, target); err != nil {
		return nil, err
	}

	switch target {
	case domain.OrderStatusConfirmed:
		if err := s.orders.UpdatePaymentStatus(txCtx, tx, order.ID, domain.PaymentStatusPaid); err != nil {
			return nil, err
		}
		if err := s.orders.SetConfirmedAt(txCtx, tx, order.ID, now); err != nil {
			return nil, err
		}
		order.PaymentStatus = domain.PaymentStatusPaid
		order.ConfirmedAt = &now
	case domain.OrderStatusShipped:
		if trackingNumber != nil && *trackingNumber != "" {
			if err := s.orders.SetTrackingNumber(txCtx, tx, order.ID, *trackingNumber); err != nil {
				return nil, err
			}
			order.TrackingNumber = trackingNumber
		}
		if err := s.orders.SetShippedAt(txCtx, tx, order.ID, now); err != nil {
			return nil, err
		}
		order.ShippedAt = &now
	case domain.OrderStatusDelivered:
		if err := s.orders.SetDeliveredAt(txCtx, tx, order.ID, now); err != nil {
			return nil, err
		}
		order.DeliveredAt = &now
	case domain.OrderStatusPaymentFailed:
		if err := s.orders.UpdatePaymentStatus(txCtx, tx, order.ID, domain.PaymentStatusFailed); err != nil {
			return nil, err
		}
		order.PaymentStatus = domain.PaymentStatusFailed
	case domain.OrderStatusRefunded:
		if err := s.orders.UpdatePaymentStatus(txCtx, tx, order.ID, domain.PaymentStatusRefunded); err != nil {
			return nil, err
		}
		order.PaymentStatus = domain.PaymentStatusRefunded
	}

	if _, err := s.history.Append(txCtx, tx, domain.StatusChange{
		OrderID: order.ID,
		Status:  target,
		Actor:   actor,
		Note:    note,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit status transition",
			zap.String("orderNumber", orderNumber), zap.Error(err))
		return nil, err
	}

	previous := order.Status
	order.Status = target

	s.logger.Info("order status changed",
		zap.String("orderNumber", orderNumber),
		zap.String("from", previous),
		zap.String("to", target),
		zap.String("actor", actor),
	)

	s.publish(ctx, events.OrderEvent{
		Type:           events.TypeOrderStatusChanged,
		OrderNumber:    order.OrderNumber,
		Status:         target,
		PreviousStatus: previous,
		Total:          order.Total,
		OccurredAt:     time.Now().UTC(),
	})

	return order, nil
}

// ConfirmPayment is the payment-success entry point. Gateways retry webhooks,
// so confirming an already-confirmed order is a no-op: no second history
// entry, no payment status change.
func (s *LifecycleService) ConfirmPayment(ctx context.Context, orderNumber, actor, note string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusConfirmed {
		s.logger.Info("duplicate payment confirmation ignored",
			zap.String("orderNumber", orderNumber), zap.String("actor", actor))
		return order, nil
	}

	return s.Transition(ctx, orderNumber, domain.OrderStatusConfirmed, actor, note, nil)
}

// MarkPaymentFailed records a gateway failure. Stock stays reserved; only an
// explicit cancellation releases it.
func (s *LifecycleService) MarkPaymentFailed(ctx context.Context, orderNumber, actor, note string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusPaymentFailed {
		return order, nil
	}

	return s.Transition(ctx, orderNumber, domain.OrderStatusPaymentFailed, actor, note, nil)
}

// Cancel releases the order's inventory and marks it cancelled. Per-item
// restore failures (product removed since the order was placed) are logged
// and skipped: a cancelled order always ends up cancelled even when the
// inventory bookkeeping cannot complete.
func (s *LifecycleService) Cancel(ctx context.Context, orderNumber, actor, reason string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.cancelOrder(ctx, order, actor, reason)
}

func (s *LifecycleService) cancelOrder(ctx context.Context, order *domain.Order, actor, reason string) (*domain.Order, error) {
	if !domain.CanTransition(order.Status, domain.OrderStatusCancelled) {
		return nil, apperrors.NewInvalidTransitionError(order.Status, domain.OrderStatusCancelled)
	}

	items, err := s.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	if err := s.orders.UpdateStatus(txCtx, tx, order.ID, order.Status, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	if err := s.orders.SetCancelledAt(txCtx, tx, order.ID, now); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := s.stock.RestoreStock(txCtx, tx, item.ProductID, item.Size, item.Quantity); err != nil {
			s.logger.Warn("stock restore skipped",
				zap.String("orderNumber", order.OrderNumber),
				zap.Int("productId", item.ProductID),
				zap.String("size", item.Size),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
		}
	}

	note := reason
	if note == "" {
		note = "Order cancelled"
	}
	if _, err := s.history.Append(txCtx, tx, domain.StatusChange{
		OrderID: order.ID,
		Status:  domain.OrderStatusCancelled,
		Actor:   actor,
		Note:    note,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit cancellation",
			zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return nil, err
	}

	previous := order.Status
	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now

	s.logger.Info("order cancelled",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("actor", actor),
		zap.String("reason", reason),
	)

	s.publish(ctx, events.OrderEvent{
		Type:           events.TypeOrderStatusChanged,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PreviousStatus: previous,
		Total:          order.Total,
		OccurredAt:     time.Now().UTC(),
	})

	return order, nil
}

// GetOrder loads an order with its items and status history.
func (s *LifecycleService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if order.Items, err = s.items.ListByOrderID(ctx, order.ID); err != nil {
		return nil, err
	}
	if order.History, err = s.history.ListByOrderID(ctx, order.ID); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *LifecycleService) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("order event publish failed",
			zap.String("type", event.Type),
			zap.String("orderNumber", event.OrderNumber),
			zap.Error(err),
		)
	}
}

func generateOrderNumber(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Fall back to the clock; uniqueness is enforced by the DB anyway.
		return fmt.Sprintf("ORD-%s-%d", now.Format("20060102"), now.UnixNano()%100000000)
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
