package dto

import "boutique/internal/domain"

// NormalizedCart is the authoritative, server-priced form of a client cart.
// Every figure here is what gets persisted; client-declared figures are only
// cross-checked against it.
type NormalizedCart struct {
	Items        []domain.OrderItem
	Subtotal     float64
	Tax          float64
	ShippingCost float64
	Discount     float64
	Total        float64
}
