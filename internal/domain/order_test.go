package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, false},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			o := &Order{Status: tt.from}
			assert.Equal(t, tt.ok, o.CanTransition(tt.to))
		})
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	o := &Order{Status: OrderStatusPending}

	require.NoError(t, o.UpdateStatus(OrderStatusProcessing))
	assert.Equal(t, OrderStatusProcessing, o.Status)

	err := o.UpdateStatus(OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, OrderStatusProcessing, o.Status)
}

func TestOrderCanCancel(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).CanCancel())
	assert.False(t, (&Order{Status: OrderStatusProcessing}).CanCancel())
	assert.False(t, (&Order{Status: OrderStatusShipped}).CanCancel())
	assert.False(t, (&Order{Status: OrderStatusCancelled}).CanCancel())
}

func TestNewOrderFreezesLineItems(t *testing.T) {
	userID := uuid.New()
	product := Product{
		ID:       uuid.New(),
		Name:     "Mechanical Keyboard",
		ImageURL: "https://cdn.example.com/kb.png",
		Price:    129.90,
		Stock:    10,
	}
	lines := []CartLine{
		{Item: CartItem{ProductID: product.ID, Quantity: 2}, Product: product},
	}
	totals := ComputeTotals([]LineItem{{UnitPrice: 129.90, Quantity: 2}}, 0, DefaultPricingConfig())

	order := NewOrder(userID, lines, totals, "SAVE10", ShippingAddress{City: "Istanbul"}, "credit_card")

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, totals.Total, order.TotalAmount)
	require.Len(t, order.Items, 1)

	item := order.Items[0]
	assert.Equal(t, order.ID, item.OrderID)
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Mechanical Keyboard", item.ProductName)
	assert.Equal(t, "https://cdn.example.com/kb.png", item.ProductImage)
	assert.Equal(t, 129.90, item.UnitPrice)
	assert.Equal(t, 2, item.Quantity)
	assert.NotEqual(t, uuid.Nil, item.ID)
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber()
	assert.True(t, strings.HasPrefix(n, "ORD-"))

	parts := strings.Split(n, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 3)
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("SHIPPED")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, st)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}
