package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

type OrderLifecycle interface {
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	Transition(ctx context.Context, orderNumber, target, actor, note string, trackingNumber *string) (*domain.Order, error)
	Cancel(ctx context.Context, orderNumber, actor, reason string) (*domain.Order, error)
}

// OrderStatusUseCase fronts the lifecycle for admin transitions and
// owner-initiated cancellation. Role checks live here; the lifecycle itself
// only knows the state graph.
type OrderStatusUseCase struct {
	lifecycle OrderLifecycle
	logger    *zap.Logger
}

func NewOrderStatusUseCase(lifecycle OrderLifecycle, logger *zap.Logger) *OrderStatusUseCase {
	return &OrderStatusUseCase{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// UpdateStatus applies an admin status change.
func (uc *OrderStatusUseCase) UpdateStatus(ctx context.Context, orderNumber string, req dto.StatusUpdateRequest, actor string) (*domain.Order, error) {
	if !domain.IsOrderStatus(req.Status) {
		return nil, apperrors.NewValidationError("unknown order status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status %q is not a valid order status", req.Status),
		})
	}

	if req.Status == domain.OrderStatusCancelled {
		return uc.lifecycle.Cancel(ctx, orderNumber, actor, req.Note)
	}

	return uc.lifecycle.Transition(ctx, orderNumber, req.Status, actor, req.Note, req.TrackingNumber)
}

// CancelOrder cancels on behalf of the order's owner, or of an admin.
// Requests from anyone else fail without touching the order.
func (uc *OrderStatusUseCase) CancelOrder(ctx context.Context, orderNumber string, requesterID *uint, isAdmin bool, reason string) (*domain.Order, error) {
	order, err := uc.lifecycle.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	actor := "admin"
	if !isAdmin {
		if requesterID == nil || !order.OwnedBy(*requesterID) {
			return nil, apperrors.NewForbiddenError("only the order owner or an admin may cancel this order")
		}
		actor = "customer"
	}

	return uc.lifecycle.Cancel(ctx, orderNumber, actor, reason)
}

// GetOrder returns an order with items and history, restricted to its owner
// unless the caller is an admin. Guest orders are only reachable by admins.
func (uc *OrderStatusUseCase) GetOrder(ctx context.Context, orderNumber string, requesterID *uint, isAdmin bool) (*domain.Order, error) {
	order, err := uc.lifecycle.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if !isAdmin && (requesterID == nil || !order.OwnedBy(*requesterID)) {
		return nil, apperrors.NewForbiddenError("not authorized to view this order")
	}

	return order, nil
}
