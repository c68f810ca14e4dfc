package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"boutique/internal/domain"
	"boutique/internal/errors"
	"boutique/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `
	id, orderNumber, userId, customerName, customerEmail, customerPhone,
	shippingAddress, billingAddress, paymentMethod, paymentStatus,
	stripePaymentIntentId, razorpayOrderId,
	subtotal, tax, shippingCost, discount, total,
	status, trackingNumber, confirmedAt, shippedAt, deliveredAt, cancelledAt,
	createdAt, updatedAt`

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx mysql.DBTX, order *domain.Order) (uint, error) {
	shipping, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return 0, fmt.Errorf("encoding shipping address: %w", err)
	}
	billing, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return 0, fmt.Errorf("encoding billing address: %w", err)
	}

	query := `
		INSERT INTO Orders (
			orderNumber, userId, customerName, customerEmail, customerPhone,
			shippingAddress, billingAddress, paymentMethod, paymentStatus,
			subtotal, tax, shippingCost, discount, total, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		shipping, billing, order.PaymentMethod, order.PaymentStatus,
		order.Subtotal, order.Tax, order.ShippingCost, order.Discount, order.Total, order.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders WHERE orderNumber = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, orderNumber),
		fmt.Sprintf("order %s not found", orderNumber))
}

func (r *MySQLOrderRepository) FindByStripeIntentID(ctx context.Context, intentID string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders WHERE stripePaymentIntentId = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, intentID),
		fmt.Sprintf("order with payment intent %s not found", intentID))
}

func (r *MySQLOrderRepository) FindByRazorpayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := `SELECT` + orderColumns + ` FROM Orders WHERE razorpayOrderId = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, gatewayOrderID),
		fmt.Sprintf("order with gateway order %s not found", gatewayOrderID))
}

func (r *MySQLOrderRepository) scanOne(row *sql.Row, notFoundMsg string) (*domain.Order, error) {
	var (
		order             domain.Order
		shipping, billing []byte
	)

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID,
		&order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&shipping, &billing, &order.PaymentMethod, &order.PaymentStatus,
		&order.StripePaymentIntentID, &order.RazorpayOrderID,
		&order.Subtotal, &order.Tax, &order.ShippingCost, &order.Discount, &order.Total,
		&order.Status, &order.TrackingNumber,
		&order.ConfirmedAt, &order.ShippedAt, &order.DeliveredAt, &order.CancelledAt,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}

	if err := json.Unmarshal(shipping, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decoding shipping address: %w", err)
	}
	if err := json.Unmarshal(billing, &order.BillingAddress); err != nil {
		return nil, fmt.Errorf("decoding billing address: %w", err)
	}

	return &order, nil
}

// UpdateStatus is a compare-and-swap: the row only changes while it still
// holds the status the caller observed. Zero rows means another request won
// the transition in between, and the caller's move is no longer valid.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx mysql.DBTX, id uint, from, to string) error {
	query := `UPDATE Orders SET status = ? WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewInvalidTransitionError(from, to)
	}

	return nil
}

func (r *MySQLOrderRepository) UpdatePaymentStatus(ctx context.Context, tx mysql.DBTX, id uint, paymentStatus string) error {
	query := `UPDATE Orders SET paymentStatus = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, paymentStatus, id); err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	return nil
}

// Lifecycle timestamps are set at most once: the guard column IS NULL keeps a
// replayed transition from overwriting the original time.

func (r *MySQLOrderRepository) SetConfirmedAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error {
	return r.setTimestamp(ctx, tx, id, "confirmedAt", t)
}

func (r *MySQLOrderRepository) SetShippedAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error {
	return r.setTimestamp(ctx, tx, id, "shippedAt", t)
}

func (r *MySQLOrderRepository) SetDeliveredAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error {
	return r.setTimestamp(ctx, tx, id, "deliveredAt", t)
}

func (r *MySQLOrderRepository) SetCancelledAt(ctx context.Context, tx mysql.DBTX, id uint, t time.Time) error {
	return r.setTimestamp(ctx, tx, id, "cancelledAt", t)
}

func (r *MySQLOrderRepository) setTimestamp(ctx context.Context, tx mysql.DBTX, id uint, column string, t time.Time) error {
	query := fmt.Sprintf(`UPDATE Orders SET %s = ? WHERE id = ? AND %s IS NULL`, column, column)

	if _, err := tx.ExecContext(ctx, query, t, id); err != nil {
		return fmt.Errorf("setting %s: %w", column, err)
	}
	return nil
}

func (r *MySQLOrderRepository) SetTrackingNumber(ctx context.Context, tx mysql.DBTX, id uint, trackingNumber string) error {
	query := `UPDATE Orders SET trackingNumber = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, trackingNumber, id); err != nil {
		return fmt.Errorf("setting tracking number: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) SetStripeIntentID(ctx context.Context, id uint, intentID string) error {
	query := `UPDATE Orders SET stripePaymentIntentId = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, intentID, id); err != nil {
		return fmt.Errorf("setting stripe intent id: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) SetRazorpayOrderID(ctx context.Context, id uint, gatewayOrderID string) error {
	query := `UPDATE Orders SET razorpayOrderId = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, gatewayOrderID, id); err != nil {
		return fmt.Errorf("setting razorpay order id: %w", err)
	}
	return nil
}
