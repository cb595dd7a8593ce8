// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/domain/payment"
)

// --- Mock implementations ---

type mockCartStore struct {
	cart    *cart.Cart
	cleared bool
}

func (m *mockCartStore) GetCart(_ context.Context, _ string) (*cart.Cart, error) {
	return m.cart, nil
}

func (m *mockCartStore) ClearCart(_ context.Context, _ string) error {
	m.cleared = true
	m.cart = cart.NewCart(m.cart.Scope)
	return nil
}

type mockOrderStore struct {
	nextID    uint
	created   []*order.Order
	cancelled []uint
	attached  map[uint]string
	createErr error
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{nextID: 1, attached: map[uint]string{}}
}

func (m *mockOrderStore) CreateOrder(input *order.CreateOrderInput) (*order.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	o := &order.Order{
		ID:              m.nextID,
		OrderNumber:     "ORD-20250115-00001",
		UserID:          input.UserID,
		Email:           input.Email,
		Status:          order.OrderStatusPending,
		SubtotalAmount:  input.SubtotalAmount,
		TaxAmount:       input.TaxAmount,
		ShippingAmount:  input.ShippingAmount,
		TotalAmount:     input.TotalAmount,
		Currency:        input.Currency,
		ShippingDetails: input.ShippingDetails,
		PaymentMethod:   input.PaymentMethod,
		PaymentProvider: input.PaymentProvider,
		Items:           input.Items,
	}
	m.nextID++
	m.created = append(m.created, o)
	return o, nil
}

func (m *mockOrderStore) CancelOrder(orderID uint, _, _ string) (*order.Order, error) {
	m.cancelled = append(m.cancelled, orderID)
	return nil, nil
}

func (m *mockOrderStore) AttachGatewaySession(orderID uint, sessionID, checkoutURL string) error {
	m.attached[orderID] = sessionID
	for _, o := range m.created {
		if o.ID == orderID {
			o.ProviderSessionID = sessionID
			o.CheckoutURL = checkoutURL
		}
	}
	return nil
}

func (m *mockOrderStore) GetOrderByNumber(number string) (*order.Order, error) {
	for _, o := range m.created {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

type mockGateway struct {
	session *payment.CheckoutSession
	err     error
	calls   int

	cartClearedAtCall *bool // observed from the cart store when invoked
	cartStore         *mockCartStore
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, _ *order.Order) (*payment.CheckoutSession, error) {
	m.calls++
	if m.cartStore != nil {
		cleared := m.cartStore.cleared
		m.cartClearedAtCall = &cleared
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockGateway) Currency() string { return "ngn" }

type memStateStore struct {
	sessions map[string]*Session
	idem     map[string]string
}

func newMemStateStore() *memStateStore {
	return &memStateStore{sessions: map[string]*Session{}, idem: map[string]string{}}
}

func (m *memStateStore) Load(_ context.Context, scope string) (*Session, error) {
	if sess, ok := m.sessions[scope]; ok {
		return sess, nil
	}
	return NewSession(scope), nil
}

func (m *memStateStore) Save(_ context.Context, sess *Session) error {
	m.sessions[sess.Scope] = sess
	return nil
}

func (m *memStateStore) Delete(_ context.Context, scope string) error {
	delete(m.sessions, scope)
	return nil
}

func (m *memStateStore) ClaimIdempotencyKey(_ context.Context, key string) (string, bool, error) {
	if existing, ok := m.idem[key]; ok {
		if existing == idempotencyReserved {
			return "", false, nil
		}
		return existing, false, nil
	}
	m.idem[key] = idempotencyReserved
	return "", true, nil
}

func (m *memStateStore) CompleteIdempotencyKey(_ context.Context, key, orderNumber string) error {
	m.idem[key] = orderNumber
	return nil
}

func (m *memStateStore) ReleaseIdempotencyKey(_ context.Context, key string) error {
	delete(m.idem, key)
	return nil
}

// --- Helpers ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Checkout.TaxRate = 0.075
	cfg.Checkout.ShippingFlatFee = 2000
	cfg.Checkout.FreeShippingThreshold = 50000
	cfg.Checkout.CartTTL = time.Hour
	cfg.External.Stripe.SecretKey = "sk_test_x"
	cfg.External.WhatsApp.BusinessNumber = "2348000000000"
	return cfg
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func readyScope(t *testing.T, states StateStore, carts *mockCartStore, scope string) {
	t.Helper()
	sess := NewSession(scope)
	require.NoError(t, sess.BeginDetails(carts.cart))
	require.NoError(t, sess.SetDetails(carts.cart, completeDetails()))
	require.NoError(t, states.Save(context.Background(), sess))
}

// --- Tests ---

func TestSubmit_ManualHandoffClearsCartBeforeReturningURL(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	states := newMemStateStore()
	svc := NewService(carts, orders, &mockGateway{}, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	result, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "")

	require.NoError(t, err)
	assert.True(t, carts.cleared)
	assert.Contains(t, result.HandoffURL, "https://wa.me/2348000000000?text=")
	assert.Contains(t, result.HandoffURL, "ORD-20250115-00001")
	assert.Empty(t, result.RedirectURL)
}

func TestSubmit_ManualHandoffPricing(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()} // 3 x 1000
	orders := newMockOrderStore()
	states := newMemStateStore()
	svc := NewService(carts, orders, &mockGateway{}, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	result, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "")

	require.NoError(t, err)
	assert.Equal(t, int64(3000), result.Order.SubtotalAmount)
	assert.Equal(t, int64(225), result.Order.TaxAmount)
	assert.Equal(t, int64(2000), result.Order.ShippingAmount)
	assert.Equal(t, int64(5225), result.Order.TotalAmount)
}

func TestSubmit_HostedKeepsCartUntilConfirmation(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	states := newMemStateStore()
	gateway := &mockGateway{
		session:   &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"},
		cartStore: carts,
	}
	svc := NewService(carts, orders, gateway, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	result, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodHostedGateway, "")

	require.NoError(t, err)
	assert.False(t, carts.cleared)
	assert.Equal(t, "https://checkout.example/cs_test_1", result.RedirectURL)
	assert.Equal(t, "cs_test_1", orders.attached[result.Order.ID])
	assert.Empty(t, result.HandoffURL)
}

func TestSubmit_HostedGatewayFailureCancelsOrder(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	states := newMemStateStore()
	gateway := &mockGateway{err: errors.New("gateway unavailable")}
	svc := NewService(carts, orders, gateway, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	_, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodHostedGateway, "")

	require.Error(t, err)
	require.Len(t, orders.created, 1)
	assert.Equal(t, []uint{orders.created[0].ID}, orders.cancelled)
	assert.False(t, carts.cleared)
}

func TestSubmit_DuplicateIdempotencyKeyReturnsFirstOrder(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	states := newMemStateStore()
	gateway := &mockGateway{
		session: &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"},
	}
	svc := NewService(carts, orders, gateway, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	first, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodHostedGateway, "idem-1")
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodHostedGateway, "idem-1")
	require.NoError(t, err)

	assert.Len(t, orders.created, 1)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Order.OrderNumber, second.Order.OrderNumber)
	assert.Equal(t, first.RedirectURL, second.RedirectURL)
	assert.Equal(t, 1, gateway.calls)
}

func TestSubmit_ReservedKeyRejectsConcurrentSubmit(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	states := newMemStateStore()
	states.idem["idem-1"] = idempotencyReserved
	svc := NewService(carts, orders, &mockGateway{}, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	_, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "idem-1")

	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Empty(t, orders.created)
}

func TestSubmit_FailedSubmitReleasesIdempotencyKey(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	orders := newMockOrderStore()
	orders.createErr = errors.New("db write failed")
	states := newMemStateStore()
	svc := NewService(carts, orders, &mockGateway{}, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	_, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "idem-1")
	require.Error(t, err)

	// Key was released, so a retry may proceed
	orders.createErr = nil
	readyScope(t, states, carts, scope)
	_, err = svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "idem-1")
	assert.NoError(t, err)
}

func TestSubmit_GuardsBlockEmptyCartAndMissingDetails(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cart.NewCart(scope)}
	svc := NewService(carts, newMockOrderStore(), &mockGateway{}, newMemStateStore(), testConfig(), quietLogger())

	_, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethodManualHandoff, "")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSubmit_UnknownMethodRejected(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	states := newMemStateStore()
	svc := NewService(carts, newMockOrderStore(), &mockGateway{}, states, testConfig(), quietLogger())
	readyScope(t, states, carts, scope)

	_, err := svc.Submit(context.Background(), scope, nil, order.PaymentMethod("bank_transfer"), "")
	assert.Error(t, err)
}

func TestGetSummary(t *testing.T) {
	scope := "session:test"
	carts := &mockCartStore{cart: cartWithItems()}
	svc := NewService(carts, newMockOrderStore(), &mockGateway{}, newMemStateStore(), testConfig(), quietLogger())

	summary, err := svc.GetSummary(context.Background(), scope)

	require.NoError(t, err)
	assert.Equal(t, StepCart, summary.Session.Step)
	assert.Equal(t, int64(5225), summary.Pricing.Total)
	assert.Len(t, summary.Methods, 2)
}
