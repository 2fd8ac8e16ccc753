package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItemMergesDuplicates(t *testing.T) {
	cart := &Cart{}
	apples := Product{ProductID: "p1", Name: "Apples", Price: 50, Unit: "kg"}
	tomatoes := Product{ProductID: "p2", Name: "Tomatoes", Price: 20, Unit: "kg"}

	require.NoError(t, cart.AddItem(apples, 1))
	require.NoError(t, cart.AddItem(tomatoes, 1))
	require.NoError(t, cart.AddItem(apples, 3))

	// one line per distinct product, quantities summed
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestCartTotals(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(Product{ProductID: "a", Name: "A", Price: 50}, 2))
	require.NoError(t, cart.AddItem(Product{ProductID: "b", Name: "B", Price: 20}, 1))

	totals := cart.Totals()
	assert.Equal(t, 120.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.Shipping)
	assert.Equal(t, 150.0, totals.Total)
}

func TestCartTotalsEmpty(t *testing.T) {
	cart := &Cart{}
	totals := cart.Totals()
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Shipping, "shipping applies only to non-empty carts")
	assert.Zero(t, totals.Total)
}

func TestCartShippingReappearsAfterClear(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(Product{ProductID: "a", Price: 10}, 1))
	assert.Equal(t, float64(FlatShipping), cart.Totals().Shipping)

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Totals().Shipping)

	require.NoError(t, cart.AddItem(Product{ProductID: "b", Price: 5}, 1))
	assert.Equal(t, float64(FlatShipping), cart.Totals().Shipping)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(Product{ProductID: "a", Price: 10}, 2))

	require.NoError(t, cart.UpdateQuantity("a", 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.UpdateQuantity("a", 0), ErrQuantityTooLow)
	assert.Equal(t, 5, cart.Items[0].Quantity, "rejected update must not change the line")

	assert.Error(t, cart.UpdateQuantity("missing", 2))
}

func TestCartAddItemRejectsBadQuantity(t *testing.T) {
	cart := &Cart{}
	assert.ErrorIs(t, cart.AddItem(Product{ProductID: "a", Price: 10}, 0), ErrQuantityTooLow)
	assert.Empty(t, cart.Items)
}

func TestCartRemoveItem(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(Product{ProductID: "a", Price: 10}, 1))
	require.NoError(t, cart.AddItem(Product{ProductID: "b", Price: 20}, 1))

	cart.RemoveItem("a")
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "b", cart.Items[0].ProductID)

	// removing an absent product is a no-op
	cart.RemoveItem("a")
	assert.Len(t, cart.Items, 1)
}

func TestCartUnitDefaultsToKg(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(Product{ProductID: "a", Price: 10}, 1))
	assert.Equal(t, "kg", cart.Items[0].Unit)
}
