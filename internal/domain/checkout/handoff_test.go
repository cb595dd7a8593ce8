// internal/domain/checkout/handoff_test.go
package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dajow/dajow-backend/internal/domain/order"
)

func handoffOrder() *order.Order {
	return &order.Order{
		OrderNumber:    "ORD-20250115-00042",
		Currency:       "ngn",
		SubtotalAmount: 3000,
		TaxAmount:      225,
		ShippingAmount: 2000,
		TotalAmount:    5225,
		ShippingDetails: order.ShippingDetails{
			FullName: "Ada Obi",
			Address:  "12 Marina Road",
			City:     "Lagos",
			State:    "Lagos",
		},
		Items: []order.OrderItem{
			{Name: "Classic Monogram Tote", Quantity: 2, UnitPrice: 1000, TotalPrice: 2000},
			{Name: "Silk Twill Scarf", Quantity: 1, UnitPrice: 1000, TotalPrice: 1000},
		},
	}
}

func TestBuildHandoffMessage(t *testing.T) {
	msg := BuildHandoffMessage(handoffOrder())

	assert.Contains(t, msg, "ORD-20250115-00042")
	assert.Contains(t, msg, "2x Classic Monogram Tote - NGN 20.00")
	assert.Contains(t, msg, "1x Silk Twill Scarf - NGN 10.00")
	assert.Contains(t, msg, "Subtotal: NGN 30.00")
	assert.Contains(t, msg, "Tax: NGN 2.25")
	assert.Contains(t, msg, "Shipping: NGN 20.00")
	assert.Contains(t, msg, "Total: NGN 52.25")
	assert.Contains(t, msg, "Name: Ada Obi")
	assert.Contains(t, msg, "12 Marina Road, Lagos, Lagos")
}

func TestBuildHandoffMessage_FreeShipping(t *testing.T) {
	o := handoffOrder()
	o.ShippingAmount = 0

	msg := BuildHandoffMessage(o)
	assert.Contains(t, msg, "Shipping: Free")
}

func TestBuildHandoffURL(t *testing.T) {
	link := BuildHandoffURL("2348000000000", handoffOrder())

	require.True(t, strings.HasPrefix(link, "https://wa.me/2348000000000?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	text := parsed.Query().Get("text")
	assert.Contains(t, text, "ORD-20250115-00042")
	assert.Contains(t, text, "Total: NGN 52.25")
}
