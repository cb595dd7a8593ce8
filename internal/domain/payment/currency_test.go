// internal/domain/payment/currency_test.go
package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyForCountry(t *testing.T) {
	tests := []struct {
		country  string
		expected string
	}{
		{"NG", "ngn"},
		{"ng", "ngn"},
		{" NG ", "ngn"},
		{"US", "usd"},
		{"GB", "gbp"},
		{"GH", "ghs"},
		{"DE", "eur"},
		{"XX", "usd"},
		{"", "usd"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrencyForCountry(tt.country))
		})
	}
}
