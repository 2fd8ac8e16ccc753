package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"forward step", OrderPending, OrderConfirmed, true},
		{"confirmed to on_route", OrderConfirmed, OrderOnRoute, true},
		{"on_route to shipped", OrderOnRoute, OrderShipped, true},
		{"shipped to delivered", OrderShipped, OrderDelivered, true},
		{"delivered to received", OrderDelivered, OrderReceived, true},
		{"skip a step", OrderPending, OrderShipped, false},
		{"backwards", OrderShipped, OrderConfirmed, false},
		{"repeat same status", OrderConfirmed, OrderConfirmed, false},
		{"cancel pending", OrderPending, OrderCancelled, true},
		{"cancel delivered", OrderDelivered, OrderCancelled, true},
		{"cancel received", OrderReceived, OrderCancelled, false},
		{"revive cancelled", OrderCancelled, OrderConfirmed, false},
		{"leave received", OrderReceived, OrderConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("on_route")
	require.NoError(t, err)
	assert.Equal(t, OrderOnRoute, got)

	_, err = ParseOrderStatus("teleported")
	assert.Error(t, err)
}

func newTestOrder() *Order {
	return &Order{
		OrderID:    "o1",
		CustomerID: "cust1",
		Items: []OrderItem{
			{ProductID: "p1", FarmerID: "farmer1", Name: "Apples", Price: 50, Unit: "kg", Quantity: 2},
			{ProductID: "p2", FarmerID: "farmer2", Name: "Tomatoes", Price: 20, Unit: "kg", Quantity: 1},
		},
		PaymentMethod: PaymentCOD,
		ShippingPrice: 30,
		Status:        OrderPending,
		Tracking:      []TrackingEntry{},
	}
}

func TestOrderSubtotal(t *testing.T) {
	order := newTestOrder()
	assert.Equal(t, 120.0, order.Subtotal())
	order.TotalPrice = order.Subtotal() + order.ShippingPrice
	assert.Equal(t, 150.0, order.TotalPrice)
}

func TestOrderInvolvesFarmer(t *testing.T) {
	order := newTestOrder()
	assert.True(t, order.InvolvesFarmer("farmer1"))
	assert.True(t, order.InvolvesFarmer("farmer2"))
	assert.False(t, order.InvolvesFarmer("farmer3"))
}

func TestApplyStatusAppendsOneTrackingEntryPerUpdate(t *testing.T) {
	order := newTestOrder()
	steps := []OrderStatus{OrderConfirmed, OrderOnRoute, OrderShipped, OrderDelivered, OrderReceived}

	for i, status := range steps {
		require.NoError(t, order.ApplyStatus(status, ""))
		assert.Len(t, order.Tracking, i+1)
		assert.Equal(t, status, order.Status)
	}
	assert.Equal(t, steps[len(steps)-1], order.Tracking[len(order.Tracking)-1].Status)
}

func TestApplyStatusRejectsIllegalMove(t *testing.T) {
	order := newTestOrder()
	err := order.ApplyStatus(OrderShipped, "")
	assert.Error(t, err)
	assert.Equal(t, OrderPending, order.Status)
	assert.Empty(t, order.Tracking, "rejected updates must not grow the trail")
}

func TestApplyStatusOnTerminalOrder(t *testing.T) {
	order := newTestOrder()
	require.NoError(t, order.ApplyStatus(OrderCancelled, "out of stock"))
	require.Len(t, order.Tracking, 1)

	err := order.ApplyStatus(OrderConfirmed, "")
	assert.ErrorIs(t, err, ErrOrderTerminal)
	assert.Len(t, order.Tracking, 1)
	assert.Equal(t, OrderCancelled, order.Status)
}

func TestReceivedMarksCODOrderPaid(t *testing.T) {
	order := newTestOrder()
	for _, status := range []OrderStatus{OrderConfirmed, OrderOnRoute, OrderShipped, OrderDelivered} {
		require.NoError(t, order.ApplyStatus(status, ""))
		assert.False(t, order.IsPaid)
	}

	require.NoError(t, order.ApplyStatus(OrderReceived, ""))
	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
}

func TestReceivedLeavesOnlinePaymentAlone(t *testing.T) {
	order := newTestOrder()
	order.PaymentMethod = PaymentOnline
	for _, status := range []OrderStatus{OrderConfirmed, OrderOnRoute, OrderShipped, OrderDelivered, OrderReceived} {
		require.NoError(t, order.ApplyStatus(status, ""))
	}
	assert.False(t, order.IsPaid, "online payment state is owned by the payment flow")
}
