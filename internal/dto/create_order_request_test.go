package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemRequest_Unmarshal_ProductIDNumber(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"productId": 42, "quantity": 2, "size": "M"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 42, item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "M", item.Size)
}

func TestOrderItemRequest_Unmarshal_ProductIDString(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"productId": "42", "quantity": 1, "size": "S"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 42, item.ProductID)
}

func TestOrderItemRequest_Unmarshal_ProductAlias(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"product": 7, "quantity": 1, "size": "L"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 7, item.ProductID)
}

func TestOrderItemRequest_Unmarshal_ProductAliasString(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"product": " 7 ", "quantity": 1, "size": "L"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 7, item.ProductID)
}

func TestOrderItemRequest_Unmarshal_ProductIDWins(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"product": 1, "productId": 2, "quantity": 1, "size": "M"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 2, item.ProductID)
}

func TestOrderItemRequest_Unmarshal_MissingProduct(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"quantity": 1, "size": "M"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, 0, item.ProductID)
}

func TestOrderItemRequest_Unmarshal_NonNumericProduct(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"productId": "abc", "quantity": 1, "size": "M"}`), &item)

	assert.Error(t, err)
}

func TestOrderItemRequest_Unmarshal_AdvisoryPrice(t *testing.T) {
	var item OrderItemRequest
	err := json.Unmarshal([]byte(`{"productId": 3, "quantity": 1, "size": "M", "price": 19.99, "color": "navy"}`), &item)

	require.NoError(t, err)
	require.NotNil(t, item.Price)
	assert.Equal(t, 19.99, *item.Price)
	assert.Equal(t, "navy", item.Color)
}

func TestCreateOrderRequest_Unmarshal(t *testing.T) {
	payload := `{
		"customerInfo": {"name": "Jane", "email": "jane@example.com"},
		"items": [{"product": "5", "quantity": 2, "size": "M"}],
		"shippingAddress": {"line1": "123 Main St", "city": "Springfield"},
		"paymentMethod": "card",
		"total": 64.78
	}`

	var req CreateOrderRequest
	err := json.Unmarshal([]byte(payload), &req)

	require.NoError(t, err)
	require.NotNil(t, req.CustomerInfo)
	assert.Equal(t, "Jane", req.CustomerInfo.Name)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 5, req.Items[0].ProductID)
	assert.Equal(t, "123 Main St", req.ShippingAddress.Line1)
	assert.Nil(t, req.BillingAddress)
	require.NotNil(t, req.Total)
	assert.Equal(t, 64.78, *req.Total)
}
