// internal/domain/order/entity_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  OrderStatus
		to    OrderStatus
		valid bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"pending to delivered", OrderStatusPending, OrderStatusDelivered, false},
		{"paid to shipped", OrderStatusPaid, OrderStatusShipped, true},
		{"paid to cancelled", OrderStatusPaid, OrderStatusCancelled, true},
		{"paid to delivered", OrderStatusPaid, OrderStatusDelivered, false},
		{"paid to pending", OrderStatusPaid, OrderStatusPending, false},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped to cancelled", OrderStatusShipped, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusShipped, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"cancelled to paid", OrderStatusCancelled, OrderStatusPaid, false},
		{"same status is not a transition", OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(OrderStatusPending))
	assert.True(t, IsValidStatus(OrderStatusPaid))
	assert.True(t, IsValidStatus(OrderStatusShipped))
	assert.True(t, IsValidStatus(OrderStatusDelivered))
	assert.True(t, IsValidStatus(OrderStatusCancelled))
	assert.False(t, IsValidStatus(OrderStatus("refunded")))
	assert.False(t, IsValidStatus(OrderStatus("")))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusPaid))
	assert.False(t, IsTerminalStatus(OrderStatus("unknown")))
}

func validDetails() ShippingDetails {
	return ShippingDetails{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Phone:    "+2348012345678",
		Address:  "12 Marina Road",
		City:     "Lagos",
		State:    "Lagos",
	}
}

func TestShippingDetails_Validate(t *testing.T) {
	d := validDetails()
	require.NoError(t, d.Validate())
}

func TestShippingDetails_PostalCodeOptional(t *testing.T) {
	d := validDetails()
	d.PostalCode = ""
	assert.NoError(t, d.Validate())

	d.PostalCode = "101241"
	assert.NoError(t, d.Validate())
}

func TestShippingDetails_MissingMandatoryField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ShippingDetails)
	}{
		{"full name", func(d *ShippingDetails) { d.FullName = "" }},
		{"email", func(d *ShippingDetails) { d.Email = "" }},
		{"phone", func(d *ShippingDetails) { d.Phone = "" }},
		{"address", func(d *ShippingDetails) { d.Address = "" }},
		{"city", func(d *ShippingDetails) { d.City = "" }},
		{"state", func(d *ShippingDetails) { d.State = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			assert.Error(t, d.Validate())
			assert.False(t, d.IsComplete())
		})
	}
}

func TestShippingDetails_WhitespaceOnlyIsMissing(t *testing.T) {
	d := validDetails()
	d.City = "   "
	assert.Error(t, d.Validate())
}

func TestShippingDetails_NormalizeTrims(t *testing.T) {
	d := validDetails()
	d.FullName = "  Ada Obi  "
	d.Email = " ada@example.com "

	require.NoError(t, d.Validate())
	assert.Equal(t, "Ada Obi", d.FullName)
	assert.Equal(t, "ada@example.com", d.Email)
}

func TestShippingDetails_InvalidEmail(t *testing.T) {
	d := validDetails()
	d.Email = "not-an-email"
	assert.Error(t, d.Validate())
}
