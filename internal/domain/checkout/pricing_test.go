// internal/domain/checkout/pricing_test.go
package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testTaxRate       = 0.075
	testFlatFee       = int64(2000)
	testFreeThreshold = int64(50000)
)

func TestComputePricing_StandardOrder(t *testing.T) {
	// 3 units at 1000 minor units each
	p := ComputePricing(3000, testTaxRate, testFlatFee, testFreeThreshold)

	assert.Equal(t, int64(3000), p.Subtotal)
	assert.Equal(t, int64(225), p.Tax)
	assert.Equal(t, int64(2000), p.ShippingFee)
	assert.Equal(t, int64(5225), p.Total)
}

func TestComputePricing_FreeShippingAboveThreshold(t *testing.T) {
	p := ComputePricing(60000, testTaxRate, testFlatFee, testFreeThreshold)

	assert.Equal(t, int64(60000), p.Subtotal)
	assert.Equal(t, int64(4500), p.Tax)
	assert.Equal(t, int64(0), p.ShippingFee)
	assert.Equal(t, int64(64500), p.Total)
}

func TestComputePricing_AtThresholdStillCharged(t *testing.T) {
	// Fee is waived only when the subtotal exceeds the threshold
	p := ComputePricing(testFreeThreshold, testTaxRate, testFlatFee, testFreeThreshold)

	assert.Equal(t, int64(2000), p.ShippingFee)
}

func TestComputePricing_JustAboveThreshold(t *testing.T) {
	p := ComputePricing(testFreeThreshold+1, testTaxRate, testFlatFee, testFreeThreshold)

	assert.Equal(t, int64(0), p.ShippingFee)
}

func TestComputePricing_TotalIdentity(t *testing.T) {
	subtotals := []int64{1, 100, 999, 3000, 49999, 50001, 123457}
	for _, subtotal := range subtotals {
		p := ComputePricing(subtotal, testTaxRate, testFlatFee, testFreeThreshold)
		assert.Equal(t, p.Subtotal+p.Tax+p.ShippingFee, p.Total, "subtotal %d", subtotal)
	}
}

func TestComputePricing_TaxRounding(t *testing.T) {
	// 7.5% of 10 is 0.75, rounds to 1
	p := ComputePricing(10, testTaxRate, testFlatFee, testFreeThreshold)
	assert.Equal(t, int64(1), p.Tax)

	// 7.5% of 6 is 0.45, rounds to 0
	p = ComputePricing(6, testTaxRate, testFlatFee, testFreeThreshold)
	assert.Equal(t, int64(0), p.Tax)
}

func TestComputePricing_ZeroSubtotal(t *testing.T) {
	p := ComputePricing(0, testTaxRate, testFlatFee, testFreeThreshold)

	assert.Equal(t, int64(0), p.Subtotal)
	assert.Equal(t, int64(0), p.Tax)
	assert.Equal(t, int64(2000), p.ShippingFee)
	assert.Equal(t, int64(2000), p.Total)
}
