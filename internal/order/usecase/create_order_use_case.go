package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

type CartNormalizer interface {
	Normalize(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

type UserAccounts interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// CreateOrderUseCase validates a checkout request, normalizes the cart and
// drives order creation, retrying the transaction on MySQL deadlocks.
type CreateOrderUseCase struct {
	cart             CartNormalizer
	lifecycle        OrderCreator
	users            UserAccounts
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewCreateOrderUseCase(
	cart CartNormalizer,
	lifecycle OrderCreator,
	users UserAccounts,
	logger *zap.Logger,
	maxRetryAttempts int,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		cart:             cart,
		lifecycle:        lifecycle,
		users:            users,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID *uint) (*domain.Order, error) {
	uc.logger.Info("order creation started",
		zap.Int("itemCount", len(req.Items)),
		zap.Bool("guest", userID == nil),
	)

	paymentMethod, ok := domain.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, apperrors.NewValidationError("unsupported payment method", apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: fmt.Sprintf("payment method %q is not supported", req.PaymentMethod),
		})
	}

	name, email, phone, err := uc.resolveCustomerInfo(ctx, req.CustomerInfo, userID)
	if err != nil {
		return nil, err
	}

	cart, err := uc.cart.Normalize(ctx, req.Items, req.Discount, req.Total)
	if err != nil {
		return nil, err
	}

	shipping := toAddress(req.ShippingAddress)
	billing := shipping
	if req.BillingAddress != nil {
		billing = toAddress(*req.BillingAddress)
	}

	order := &domain.Order{
		UserID:          userID,
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   phone,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   paymentMethod,
		Subtotal:        cart.Subtotal,
		Tax:             cart.Tax,
		ShippingCost:    cart.ShippingCost,
		Discount:        cart.Discount,
		Total:           cart.Total,
		Items:           cart.Items,
	}

	return uc.createWithRetry(ctx, order)
}

// resolveCustomerInfo enforces the guest/authenticated contract: guests must
// supply contact details, account holders fall back to their profile.
func (uc *CreateOrderUseCase) resolveCustomerInfo(ctx context.Context, info *dto.CustomerInfo, userID *uint) (name, email, phone string, err error) {
	if info != nil {
		name, email, phone = info.Name, info.Email, info.Phone
	}

	if userID == nil {
		if name == "" || email == "" || phone == "" {
			return "", "", "", apperrors.NewValidationError("customer info is required for guest checkout",
				apperrors.ValidationDetail{
					Field:   "customerInfo",
					Message: "name, email and phone are required when not signed in",
				})
		}
		return name, email, phone, nil
	}

	if name != "" && email != "" {
		return name, email, phone, nil
	}

	user, err := uc.users.FindByID(ctx, *userID)
	if err != nil {
		return "", "", "", err
	}
	if name == "" {
		name = user.Name
	}
	if email == "" {
		email = user.Email
	}
	if phone == "" && user.Phone != nil {
		phone = *user.Phone
	}
	return name, email, phone, nil
}

func (uc *CreateOrderUseCase) createWithRetry(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	maxAttempts := uc.maxRetryAttempts
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		created, err := uc.lifecycle.CreateOrder(ctx, order)
		if err == nil {
			return created, nil
		}

		if !isDeadlockError(err) {
			return nil, err
		}

		if attempt < maxAttempts {
			backoff := backoffs[min(attempt-1, len(backoffs)-1)]
			jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
			time.Sleep(jitter)
			uc.logger.Warn("deadlock detected, retrying order creation",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", maxAttempts),
			)
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded creating order")
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

func toAddress(a dto.AddressDTO) domain.Address {
	return domain.Address{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}
