package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"
)

func uintPtr(u uint) *uint {
	return &u
}

func floatPtr(f float64) *float64 {
	return &f
}

type mockCartNormalizer struct {
	NormalizeFunc func(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error)
}

func (m *mockCartNormalizer) Normalize(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error) {
	return m.NormalizeFunc(ctx, lines, discount, declaredTotal)
}

type mockOrderCreator struct {
	CreateOrderFunc func(ctx context.Context, order *domain.Order) (*domain.Order, error)
	calls           int
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.calls++
	return m.CreateOrderFunc(ctx, order)
}

type mockUserAccounts struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.User, error)
}

func (m *mockUserAccounts) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func defaultCart() *mockCartNormalizer {
	return &mockCartNormalizer{
		NormalizeFunc: func(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error) {
			return &dto.NormalizedCart{
				Items:        []domain.OrderItem{{ProductID: 1, Size: "M", Quantity: 1, UnitPrice: 25.00, LineTotal: 25.00}},
				Subtotal:     25.00,
				Tax:          2.00,
				ShippingCost: 10.00,
				Total:        37.00,
			}, nil
		},
	}
}

func passthroughCreator() *mockOrderCreator {
	return &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			order.ID = 1
			order.OrderNumber = "ORD-20260101-AB12CD34"
			return order, nil
		},
	}
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerInfo: &dto.CustomerInfo{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "555-0101",
		},
		Items:           []dto.OrderItemRequest{{ProductID: 1, Quantity: 1, Size: "M"}},
		ShippingAddress: dto.AddressDTO{Line1: "123 Main St", City: "Springfield"},
		PaymentMethod:   "card",
	}
}

func TestCreateOrder_GuestSuccess(t *testing.T) {
	creator := passthroughCreator()
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	order, err := uc.CreateOrder(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.OrderNumber != "ORD-20260101-AB12CD34" {
		t.Errorf("unexpected order number %q", order.OrderNumber)
	}
	if order.CustomerName != "Jane Doe" {
		t.Errorf("unexpected customer name %q", order.CustomerName)
	}
	if order.PaymentMethod != "CARD" {
		t.Errorf("expected normalized payment method CARD, got %q", order.PaymentMethod)
	}
	if order.Total != 37.00 {
		t.Errorf("expected server-computed total 37.00, got %v", order.Total)
	}
	if order.UserID != nil {
		t.Error("guest order must carry no user id")
	}
}

func TestCreateOrder_GuestWithoutContactInfo(t *testing.T) {
	uc := NewCreateOrderUseCase(defaultCart(), passthroughCreator(), &mockUserAccounts{}, zap.NewNop(), 3)

	req := validRequest()
	req.CustomerInfo = nil

	_, err := uc.CreateOrder(context.Background(), req, nil)

	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Details) != 1 || ve.Details[0].Field != "customerInfo" {
		t.Errorf("unexpected details: %+v", ve.Details)
	}
}

func TestCreateOrder_GuestWithoutPhone(t *testing.T) {
	creator := passthroughCreator()
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	req := validRequest()
	req.CustomerInfo.Phone = ""

	_, err := uc.CreateOrder(context.Background(), req, nil)

	ve, ok := apperrors.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Details) != 1 || ve.Details[0].Field != "customerInfo" {
		t.Errorf("unexpected details: %+v", ve.Details)
	}
	if creator.calls != 0 {
		t.Error("no order should be created without guest contact info")
	}
}

func TestCreateOrder_AuthenticatedDefaultsFromProfile(t *testing.T) {
	phone := "555-0100"
	users := &mockUserAccounts{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Stored Name", Email: "stored@example.com", Phone: &phone}, nil
		},
	}
	uc := NewCreateOrderUseCase(defaultCart(), passthroughCreator(), users, zap.NewNop(), 3)

	req := validRequest()
	req.CustomerInfo = nil

	order, err := uc.CreateOrder(context.Background(), req, uintPtr(7))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if order.CustomerName != "Stored Name" {
		t.Errorf("expected profile name, got %q", order.CustomerName)
	}
	if order.CustomerEmail != "stored@example.com" {
		t.Errorf("expected profile email, got %q", order.CustomerEmail)
	}
	if order.CustomerPhone != "555-0100" {
		t.Errorf("expected profile phone, got %q", order.CustomerPhone)
	}
}

func TestCreateOrder_UnsupportedPaymentMethod(t *testing.T) {
	uc := NewCreateOrderUseCase(defaultCart(), passthroughCreator(), &mockUserAccounts{}, zap.NewNop(), 3)

	req := validRequest()
	req.PaymentMethod = "bitcoin"

	_, err := uc.CreateOrder(context.Background(), req, nil)

	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrder_BillingDefaultsToShipping(t *testing.T) {
	var captured *domain.Order
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			captured = order
			return order, nil
		},
	}
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	_, err := uc.CreateOrder(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.BillingAddress != captured.ShippingAddress {
		t.Errorf("expected billing to default to shipping, got %+v", captured.BillingAddress)
	}
}

func TestCreateOrder_ExplicitBillingAddress(t *testing.T) {
	var captured *domain.Order
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			captured = order
			return order, nil
		},
	}
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	req := validRequest()
	req.BillingAddress = &dto.AddressDTO{Line1: "9 Invoice Rd", City: "Shelbyville"}

	_, err := uc.CreateOrder(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if captured.BillingAddress.Line1 != "9 Invoice Rd" {
		t.Errorf("expected explicit billing address, got %+v", captured.BillingAddress)
	}
}

func TestCreateOrder_CartErrorAborts(t *testing.T) {
	cart := &mockCartNormalizer{
		NormalizeFunc: func(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error) {
			return nil, apperrors.NewInsufficientStockError(1, "M", 5, 0)
		},
	}
	creator := passthroughCreator()
	uc := NewCreateOrderUseCase(cart, creator, &mockUserAccounts{}, zap.NewNop(), 3)

	_, err := uc.CreateOrder(context.Background(), validRequest(), nil)

	if _, ok := apperrors.IsInsufficientStockError(err); !ok {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if creator.calls != 0 {
		t.Errorf("lifecycle must not be reached on cart failure, got %d calls", creator.calls)
	}
}

func TestCreateOrder_RetriesOnDeadlock(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	creator := &mockOrderCreator{}
	creator.CreateOrderFunc = func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
		if creator.calls < 3 {
			return nil, deadlock
		}
		order.OrderNumber = "ORD-20260101-AB12CD34"
		return order, nil
	}
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	order, err := uc.CreateOrder(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	if creator.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", creator.calls)
	}
	if order.OrderNumber == "" {
		t.Error("expected created order")
	}
}

func TestCreateOrder_DeadlockRetriesExhausted(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			return nil, deadlock
		},
	}
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	_, err := uc.CreateOrder(context.Background(), validRequest(), nil)

	if _, ok := apperrors.IsDeadlockError(err); !ok {
		t.Fatalf("expected deadlock error after retries, got %v", err)
	}
	if creator.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", creator.calls)
	}
}

func TestCreateOrder_NonDeadlockErrorIsNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	creator := &mockOrderCreator{
		CreateOrderFunc: func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
			return nil, boom
		},
	}
	uc := NewCreateOrderUseCase(defaultCart(), creator, &mockUserAccounts{}, zap.NewNop(), 3)

	_, err := uc.CreateOrder(context.Background(), validRequest(), nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying error, got %v", err)
	}
	if creator.calls != 1 {
		t.Errorf("expected a single attempt, got %d", creator.calls)
	}
}

func TestCreateOrder_DeclaredTotalForwardedToCart(t *testing.T) {
	var forwarded *float64
	cart := defaultCart()
	base := cart.NormalizeFunc
	cart.NormalizeFunc = func(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error) {
		forwarded = declaredTotal
		return base(ctx, lines, discount, declaredTotal)
	}
	uc := NewCreateOrderUseCase(cart, passthroughCreator(), &mockUserAccounts{}, zap.NewNop(), 3)

	req := validRequest()
	req.Total = floatPtr(37.00)

	_, err := uc.CreateOrder(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if forwarded == nil || *forwarded != 37.00 {
		t.Errorf("expected declared total to reach the cart, got %v", forwarded)
	}
}
