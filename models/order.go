package models

import (
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderOnRoute   OrderStatus = "on_route"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderReceived  OrderStatus = "received"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

var ErrOrderTerminal = errors.New("order is in a terminal state")

// ParseOrderStatus validates a wire status value.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderOnRoute, OrderShipped,
		OrderDelivered, OrderReceived, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// next holds the linear forward progression. Cancellation is handled
// separately since it is reachable from every non-terminal state.
var next = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderOnRoute,
	OrderOnRoute:   OrderShipped,
	OrderShipped:   OrderDelivered,
	OrderDelivered: OrderReceived,
}

func (s OrderStatus) Terminal() bool {
	return s == OrderReceived || s == OrderCancelled
}

// CanTransition reports whether from → to is a legal move:
// one step forward along the linear chain, or cancelled from any
// non-terminal state.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return next[from] == to
}

// TrackingEntry is one audit record of the order's status trail.
type TrackingEntry struct {
	Status    OrderStatus `json:"status" bson:"status"`
	Note      string      `json:"note,omitempty" bson:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// OrderItem snapshots the product at checkout. FarmerID scopes the farmer
// order projection.
type OrderItem struct {
	ProductID string  `json:"product" bson:"productid"`
	FarmerID  string  `json:"farmerId" bson:"farmerid"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Unit      string  `json:"unit" bson:"unit"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalcode,omitempty"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Order is a finalized checkout. TotalPrice is fixed at creation from the
// item snapshots plus shipping and is never recomputed from live products.
type Order struct {
	OrderID         string          `json:"_id" bson:"orderid"`
	CustomerID      string          `json:"customerId" bson:"customerid"`
	Items           []OrderItem     `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingaddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"paymentmethod"`
	ShippingPrice   float64         `json:"shippingPrice" bson:"shippingprice"`
	TotalPrice      float64         `json:"totalPrice" bson:"totalprice"`
	Status          OrderStatus     `json:"status" bson:"status"`
	Tracking        []TrackingEntry `json:"tracking" bson:"tracking"`
	IsPaid          bool            `json:"isPaid" bson:"ispaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paidat,omitempty"`
	Version         int64           `json:"version" bson:"version"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}

// Subtotal sums the snapshotted line prices.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// InvolvesFarmer reports whether at least one line belongs to the farmer.
func (o *Order) InvolvesFarmer(farmerID string) bool {
	for _, it := range o.Items {
		if it.FarmerID == farmerID {
			return true
		}
	}
	return false
}

// ApplyStatus validates the transition and appends a tracking entry.
// Every accepted call grows the trail by exactly one entry.
func (o *Order) ApplyStatus(status OrderStatus, note string) error {
	if o.Status.Terminal() {
		return ErrOrderTerminal
	}
	if !CanTransition(o.Status, status) {
		return fmt.Errorf("cannot move order from %s to %s", o.Status, status)
	}
	now := time.Now()
	o.Status = status
	o.Tracking = append(o.Tracking, TrackingEntry{Status: status, Note: note, Timestamp: now})
	if status == OrderReceived && o.PaymentMethod == PaymentCOD && !o.IsPaid {
		o.IsPaid = true
		o.PaidAt = &now
	}
	o.UpdatedAt = now
	return nil
}
