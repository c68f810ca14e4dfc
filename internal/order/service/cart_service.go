package service

import (
	"context"
	"fmt"

	"boutique/internal/domain"
	"boutique/internal/dto"
	apperrors "boutique/internal/errors"

	"go.uber.org/zap"
)

type ProductCatalog interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

// PricingPolicy is the store-wide checkout policy: flat tax percentage and a
// flat shipping fee waived above a subtotal threshold.
type PricingPolicy struct {
	TaxRate               float64
	ShippingFee           float64
	FreeShippingThreshold float64
	TotalTolerance        float64
}

// CartService turns client-declared cart lines into authoritative, priced
// order-item snapshots. It never trusts client prices for the charged total.
type CartService struct {
	catalog ProductCatalog
	policy  PricingPolicy
	logger  *zap.Logger
}

func NewCartService(catalog ProductCatalog, policy PricingPolicy, logger *zap.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		policy:  policy,
		logger:  logger,
	}
}

// Normalize resolves every line against the live catalog, in input order. Any
// single failure aborts the whole cart; partial orders are never produced.
// declaredTotal, when present, is only cross-checked: a mismatch beyond the
// tolerance logs a warning but the server-computed figures always win.
func (s *CartService) Normalize(ctx context.Context, lines []dto.OrderItemRequest, discount float64, declaredTotal *float64) (*dto.NormalizedCart, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	items := make([]domain.OrderItem, 0, len(lines))
	subtotal := 0.0

	for i, line := range lines {
		item, err := s.normalizeLine(ctx, i, line)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		subtotal += item.LineTotal
	}

	subtotal = domain.Round2(subtotal)
	tax := domain.Round2(subtotal * s.policy.TaxRate)

	shippingCost := s.policy.ShippingFee
	if subtotal >= s.policy.FreeShippingThreshold {
		shippingCost = 0
	}

	discount = domain.Round2(discount)
	total := domain.Round2(subtotal + tax + shippingCost - discount)

	if declaredTotal != nil && !domain.MoneyEquals(*declaredTotal, total, s.policy.TotalTolerance) {
		// Documented leniency: the order proceeds with the server figure.
		s.logger.Warn("client-declared total differs from computed total",
			zap.Float64("declaredTotal", *declaredTotal),
			zap.Float64("computedTotal", total),
			zap.Float64("tolerance", s.policy.TotalTolerance),
		)
	}

	return &dto.NormalizedCart{
		Items:        items,
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shippingCost,
		Discount:     discount,
		Total:        total,
	}, nil
}

func (s *CartService) normalizeLine(ctx context.Context, index int, line dto.OrderItemRequest) (*domain.OrderItem, error) {
	product, err := s.catalog.FindByID(ctx, line.ProductID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(
				fmt.Sprintf("items[%d]: product %d not found", index, line.ProductID))
		}
		return nil, err
	}

	sizeOption, ok := product.FindSize(line.Size)
	if !ok {
		return nil, apperrors.NewSizeUnavailableError(
			product.ID, product.Name, line.Size, fmt.Sprintf("items[%d].size", index))
	}

	if sizeOption.Stock < line.Quantity {
		stockErr := apperrors.NewInsufficientStockError(product.ID, line.Size, line.Quantity, sizeOption.Stock)
		stockErr.ProductName = product.Name
		return nil, stockErr
	}

	unitPrice := product.UnitPrice()
	if line.Price != nil && !domain.MoneyEquals(*line.Price, unitPrice, s.policy.TotalTolerance) {
		s.logger.Warn("client-declared price differs from catalog price",
			zap.Int("productId", product.ID),
			zap.Float64("declaredPrice", *line.Price),
			zap.Float64("catalogPrice", unitPrice),
		)
	}

	return &domain.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Quantity:  line.Quantity,
		Size:      line.Size,
		Color:     line.Color,
		ImageURL:  product.PrimaryImage(),
		LineTotal: domain.Round2(unitPrice * float64(line.Quantity)),
	}, nil
}
