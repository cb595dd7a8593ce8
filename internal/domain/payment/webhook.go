// internal/domain/payment/webhook.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature is returned when a webhook payload fails
// signature verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrSignatureExpired is returned when the signed timestamp is outside
// the tolerance window
var ErrSignatureExpired = errors.New("webhook signature timestamp outside tolerance")

// WebhookEvent is the envelope of a gateway webhook payload
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// DefaultSignatureTolerance bounds how old a signed webhook may be
const DefaultSignatureTolerance = 5 * time.Minute

// VerifyWebhookSignature checks a Stripe-Signature header value
// ("t=<unix>,v1=<hex hmac>") against the raw payload. The signed string
// is "<timestamp>.<payload>" keyed with the webhook secret.
func VerifyWebhookSignature(payload []byte, header, secret string, now time.Time, tolerance time.Duration) error {
	if secret == "" {
		return fmt.Errorf("webhook secret not configured")
	}

	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	signedAt := time.Unix(timestamp, 0)
	if now.Sub(signedAt) > tolerance || signedAt.Sub(now) > tolerance {
		return ErrSignatureExpired
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// ParseWebhookEvent verifies the signature and decodes the event
func ParseWebhookEvent(payload []byte, header, secret string) (*WebhookEvent, error) {
	if err := VerifyWebhookSignature(payload, header, secret, time.Now(), DefaultSignatureTolerance); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	return &event, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("malformed signature timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidSignature
	}
	return timestamp, signatures, nil
}
