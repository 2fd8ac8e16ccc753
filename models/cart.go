package models

import (
	"errors"
	"time"
)

// FlatShipping is charged once per non-empty cart.
const FlatShipping = 30

var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// CartItem is one line of a user's cart. Price/name/unit are copied from the
// product when the line is created and are not re-synced afterwards.
type CartItem struct {
	UserID    string    `json:"userId,omitempty" bson:"userId,omitempty"`
	ProductID string    `json:"productId" bson:"productId"`
	Name      string    `json:"name" bson:"name"`
	Price     float64   `json:"price" bson:"price"`
	Unit      string    `json:"unit" bson:"unit"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Cart aggregates lines keyed by product. Adding an already-present product
// accumulates quantity on the existing line instead of creating a new one.
type Cart struct {
	Items []CartItem
}

func (c *Cart) AddItem(p Product, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	for i := range c.Items {
		if c.Items[i].ProductID == p.ProductID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	unit := p.Unit
	if unit == "" {
		unit = "kg"
	}
	c.Items = append(c.Items, CartItem{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Unit:      unit,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
	return nil
}

func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return errors.New("item not in cart")
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Totals recomputes from the current lines. Shipping applies only to a
// non-empty cart.
func (c *Cart) Totals() CartTotals {
	var subtotal float64
	for _, it := range c.Items {
		subtotal += it.Price * float64(it.Quantity)
	}
	var shipping float64
	if len(c.Items) > 0 {
		shipping = FlatShipping
	}
	return CartTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
