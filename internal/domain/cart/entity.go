// internal/domain/cart/entity.go
package cart

import "time"

// Line represents a single product line in a cart.
// UnitPrice is captured in minor currency units when the line is first
// added and is not re-read from the catalog afterwards.
type Line struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the line subtotal
func (l Line) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the cart snapshot persisted to Redis.
// At most one line exists per product id and every line has quantity >= 1;
// a decrease that would reach zero removes the line instead.
type Cart struct {
	Scope     string    `json:"scope"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart returns an empty cart for the given identity scope
func NewCart(scope string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		Scope:     scope,
		Items:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Find returns the line for the product id, or nil
func (c *Cart) Find(productID uint) *Line {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Add merges a line into the cart. If the product already has a line its
// quantity grows; the incoming price, name and image are ignored so the
// original capture wins. A non-positive incoming quantity counts as 1.
func (c *Cart) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	if existing := c.Find(line.ProductID); existing != nil {
		existing.Quantity += line.Quantity
	} else {
		c.Items = append(c.Items, line)
	}
	c.UpdatedAt = time.Now().UTC()
}

// Decrease lowers a line's quantity by one, removing the line at zero.
// Unknown product ids are a no-op.
func (c *Cart) Decrease(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if c.Items[i].Quantity <= 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity--
		}
		c.UpdatedAt = time.Now().UTC()
		return
	}
}

// Remove deletes a line regardless of quantity
func (c *Cart) Remove(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Line{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItems returns the sum of line quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.Items {
		total += line.Quantity
	}
	return total
}

// Subtotal returns the sum of line totals in minor currency units
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, line := range c.Items {
		total += line.LineTotal()
	}
	return total
}

// CartTotals summarizes a cart for API responses
type CartTotals struct {
	TotalItems int   `json:"total_items"`
	Subtotal   int64 `json:"subtotal"`
}

// Totals derives the cart summary
func (c *Cart) Totals() CartTotals {
	return CartTotals{
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal(),
	}
}
