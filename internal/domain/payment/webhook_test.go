// internal/domain/payment/webhook_test.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string, at time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()
	header := signPayload(t, payload, testSecret, now)

	err := VerifyWebhookSignature(payload, header, testSecret, now, DefaultSignatureTolerance)
	assert.NoError(t, err)
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := signPayload(t, payload, "whsec_other", now)

	err := VerifyWebhookSignature(payload, header, testSecret, now, DefaultSignatureTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","amount":100}`)
	now := time.Now()
	header := signPayload(t, payload, testSecret, now)

	tampered := []byte(`{"id":"evt_1","amount":999}`)
	err := VerifyWebhookSignature(tampered, header, testSecret, now, DefaultSignatureTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature_ExpiredTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-10 * time.Minute)
	header := signPayload(t, payload, testSecret, signedAt)

	err := VerifyWebhookSignature(payload, header, testSecret, time.Now(), DefaultSignatureTolerance)
	assert.ErrorIs(t, err, ErrSignatureExpired)
}

func TestVerifyWebhookSignature_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{"", "v1=abcd", "t=123", "garbage"} {
		err := VerifyWebhookSignature(payload, header, testSecret, now, DefaultSignatureTolerance)
		assert.Error(t, err, "header %q should fail", header)
	}
}

func TestVerifyWebhookSignature_MultipleSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	valid := signPayload(t, payload, testSecret, now)
	// A stale v1 alongside the valid one still verifies
	header := fmt.Sprintf("%s,v1=%s", valid, "deadbeef")

	err := VerifyWebhookSignature(payload, header, testSecret, now, DefaultSignatureTolerance)
	assert.NoError(t, err)
}

func TestParseWebhookEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "payment_status": "paid", "amount_total": 5225, "currency": "ngn"}}
	}`)
	header := signPayload(t, payload, testSecret, time.Now())

	event, err := ParseWebhookEvent(payload, header, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "cs_test_1", event.Data.Object.ID)
	assert.Equal(t, "paid", event.Data.Object.PaymentStatus)
	assert.Equal(t, int64(5225), event.Data.Object.AmountTotal)
}

func TestParseWebhookEvent_RejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_123"}`)
	header := signPayload(t, payload, "whsec_wrong", time.Now())

	_, err := ParseWebhookEvent(payload, header, testSecret)
	assert.Error(t, err)
}
