// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID uint, price int64, qty int) Line {
	return Line{
		ProductID: productID,
		Name:      "Test Product",
		UnitPrice: price,
		Image:     "test.jpg",
		Quantity:  qty,
	}
}

func TestAdd_NewLine(t *testing.T) {
	c := NewCart("session:abc")

	c.Add(line(1, 1000, 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, int64(1000), c.Items[0].UnitPrice)
}

func TestAdd_ExistingLineMergesQuantity(t *testing.T) {
	c := NewCart("session:abc")

	c.Add(line(1, 1000, 1))
	c.Add(line(1, 1000, 1))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAdd_ExistingLineKeepsOriginalPrice(t *testing.T) {
	c := NewCart("session:abc")

	c.Add(line(1, 1000, 1))

	repriced := line(1, 9999, 1)
	repriced.Image = "new.jpg"
	c.Add(repriced)

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(1000), c.Items[0].UnitPrice)
	assert.Equal(t, "test.jpg", c.Items[0].Image)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAdd_NonPositiveQuantityCountsAsOne(t *testing.T) {
	c := NewCart("session:abc")

	c.Add(line(1, 1000, 0))
	c.Add(line(2, 500, -3))

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestDecrease_RemovesLineAtZero(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 1))

	c.Decrease(1)

	assert.True(t, c.IsEmpty())
}

func TestDecrease_TwiceOnSingleQuantityLine(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 1))

	c.Decrease(1)
	c.Decrease(1)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItems())
}

func TestDecrease_LowersQuantity(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 3))

	c.Decrease(1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestDecrease_UnknownProductIsNoop(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 2))

	c.Decrease(99)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestRemove_DeletesLineRegardlessOfQuantity(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 5))
	c.Add(line(2, 500, 1))

	c.Remove(1)

	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].ProductID)
}

func TestClear_EmptiesCart(t *testing.T) {
	c := NewCart("session:abc")
	c.Add(line(1, 1000, 2))
	c.Add(line(2, 500, 1))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestTotals(t *testing.T) {
	c := NewCart("user:7")
	c.Add(line(1, 1000, 3))
	c.Add(line(2, 2500, 2))

	totals := c.Totals()

	assert.Equal(t, 5, totals.TotalItems)
	assert.Equal(t, int64(8000), totals.Subtotal)
}

func TestNoNonPositiveQuantitiesUnderOpSequence(t *testing.T) {
	c := NewCart("session:abc")

	c.Add(line(1, 1000, 1))
	c.Add(line(2, 500, 2))
	c.Decrease(1)
	c.Decrease(1)
	c.Decrease(2)
	c.Add(line(3, 750, 0))
	c.Remove(99)

	for _, l := range c.Items {
		assert.GreaterOrEqual(t, l.Quantity, 1)
	}
	assert.Equal(t, c.TotalItems(), 1+1)
}
