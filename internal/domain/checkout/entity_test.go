// internal/domain/checkout/entity_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/order"
)

func cartWithItems() *cart.Cart {
	c := cart.NewCart("session:test")
	c.Add(cart.Line{ProductID: 1, Name: "Tote", UnitPrice: 1000, Quantity: 3})
	return c
}

func completeDetails() order.ShippingDetails {
	return order.ShippingDetails{
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Phone:    "+2348012345678",
		Address:  "12 Marina Road",
		City:     "Lagos",
		State:    "Lagos",
	}
}

func TestBeginDetails_EmptyCartRejected(t *testing.T) {
	sess := NewSession("session:test")

	err := sess.BeginDetails(cart.NewCart("session:test"))

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StepCart, sess.Step)
}

func TestBeginDetails_AdvancesWithItems(t *testing.T) {
	sess := NewSession("session:test")

	require.NoError(t, sess.BeginDetails(cartWithItems()))
	assert.Equal(t, StepDetails, sess.Step)
}

func TestSetDetails_IncompleteRejected(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))

	d := completeDetails()
	d.Phone = ""
	err := sess.SetDetails(cartWithItems(), d)

	assert.Error(t, err)
	assert.Equal(t, StepDetails, sess.Step)
	assert.Nil(t, sess.Details)
}

func TestSetDetails_AdvancesToPayment(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))

	require.NoError(t, sess.SetDetails(cartWithItems(), completeDetails()))
	assert.Equal(t, StepPayment, sess.Step)
	require.NotNil(t, sess.Details)
	assert.Equal(t, "Ada Obi", sess.Details.FullName)
}

func TestReadyToSubmit_RequiresPaymentStep(t *testing.T) {
	sess := NewSession("session:test")

	err := sess.ReadyToSubmit(cartWithItems())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestReadyToSubmit_RequiresNonEmptyCart(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))
	require.NoError(t, sess.SetDetails(cartWithItems(), completeDetails()))

	// Cart was emptied after details were captured
	err := sess.ReadyToSubmit(cart.NewCart("session:test"))
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestReadyToSubmit_RequiresCompleteDetails(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))
	sess.Step = StepPayment // details never captured

	err := sess.ReadyToSubmit(cartWithItems())
	assert.ErrorIs(t, err, ErrIncompleteDetails)
}

func TestReadyToSubmit_HappyPath(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))
	require.NoError(t, sess.SetDetails(cartWithItems(), completeDetails()))

	assert.NoError(t, sess.ReadyToSubmit(cartWithItems()))
}

func TestReset(t *testing.T) {
	sess := NewSession("session:test")
	require.NoError(t, sess.BeginDetails(cartWithItems()))
	require.NoError(t, sess.SetDetails(cartWithItems(), completeDetails()))

	sess.Reset()

	assert.Equal(t, StepCart, sess.Step)
	assert.Nil(t, sess.Details)
}
