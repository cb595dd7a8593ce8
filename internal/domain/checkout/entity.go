// internal/domain/checkout/entity.go
package checkout

import (
	"errors"
	"time"

	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/order"
)

// Step is a checkout stage. Steps only move forward through guards and
// reset when the checkout completes or is abandoned.
type Step string

const (
	StepCart    Step = "cart"
	StepDetails Step = "details"
	StepPayment Step = "payment"
)

var (
	// ErrEmptyCart guards entry into the details step
	ErrEmptyCart = errors.New("cart is empty")

	// ErrIncompleteDetails guards entry into the payment step
	ErrIncompleteDetails = errors.New("shipping details are incomplete")

	// ErrWrongStep is returned when an operation is attempted out of order
	ErrWrongStep = errors.New("operation not allowed at current checkout step")

	// ErrSubmitInProgress is returned when a duplicate submit races an
	// in-flight one with the same idempotency key
	ErrSubmitInProgress = errors.New("a submit with this idempotency key is already in progress")
)

// Session is the checkout step-machine state persisted per identity scope
type Session struct {
	Scope     string                 `json:"scope"`
	Step      Step                   `json:"step"`
	Details   *order.ShippingDetails `json:"details,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewSession returns a fresh checkout session at the cart step
func NewSession(scope string) *Session {
	return &Session{
		Scope:     scope,
		Step:      StepCart,
		UpdatedAt: time.Now().UTC(),
	}
}

// BeginDetails advances cart -> details. The cart must be non-empty.
func (s *Session) BeginDetails(c *cart.Cart) error {
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	s.Step = StepDetails
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetDetails validates and stores the shipping details, advancing
// details -> payment
func (s *Session) SetDetails(c *cart.Cart, details order.ShippingDetails) error {
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	if err := details.Validate(); err != nil {
		return err
	}
	s.Details = &details
	s.Step = StepPayment
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ReadyToSubmit reports whether the session may submit payment: the
// payment step is reached, details are complete, and the cart is
// non-empty
func (s *Session) ReadyToSubmit(c *cart.Cart) error {
	if s.Step != StepPayment {
		return ErrWrongStep
	}
	if s.Details == nil || !s.Details.IsComplete() {
		return ErrIncompleteDetails
	}
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// Reset returns the session to the cart step, dropping captured details
func (s *Session) Reset() {
	s.Step = StepCart
	s.Details = nil
	s.UpdatedAt = time.Now().UTC()
}
