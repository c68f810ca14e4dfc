package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

type CreateOrderRequest struct {
	CustomerInfo    *CustomerInfo      `json:"customerInfo,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress AddressDTO         `json:"shippingAddress"`
	BillingAddress  *AddressDTO        `json:"billingAddress,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	Discount        float64            `json:"discount,omitempty"`
	Total           *float64           `json:"total,omitempty"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type AddressDTO struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItemRequest is one client-declared cart line. Price is advisory only;
// the charged figure always comes from the catalog.
type OrderItemRequest struct {
	ProductID int      `json:"productId"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	Price     *float64 `json:"price,omitempty"`
}

// UnmarshalJSON normalizes the loose shapes clients send: the product
// reference may arrive as "product" or "productId", as a number or a numeric
// string. The rest of the codebase only ever sees ProductID.
func (r *OrderItemRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Product   json.RawMessage `json:"product"`
		ProductID json.RawMessage `json:"productId"`
		Quantity  int             `json:"quantity"`
		Size      string          `json:"size"`
		Color     string          `json:"color"`
		Price     *float64        `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ref := raw.ProductID
	if len(ref) == 0 {
		ref = raw.Product
	}

	id, err := parseProductRef(ref)
	if err != nil {
		return err
	}

	r.ProductID = id
	r.Quantity = raw.Quantity
	r.Size = raw.Size
	r.Color = raw.Color
	r.Price = raw.Price
	return nil
}

func parseProductRef(ref json.RawMessage) (int, error) {
	if len(ref) == 0 {
		return 0, nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(ref, &asNumber); err == nil {
		id, err := strconv.Atoi(asNumber.String())
		if err == nil {
			return id, nil
		}
	}

	var asString string
	if err := json.Unmarshal(ref, &asString); err != nil {
		return 0, err
	}
	asString = strings.TrimSpace(asString)
	if asString == "" {
		return 0, nil
	}
	return strconv.Atoi(asString)
}
