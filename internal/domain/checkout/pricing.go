// internal/domain/checkout/pricing.go
package checkout

import "math"

// Pricing is the order price breakdown in minor currency units.
// It is computed once at submit time and frozen onto the order.
type Pricing struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	ShippingFee int64 `json:"shipping_fee"`
	Total       int64 `json:"total"`
}

// ComputePricing derives the checkout totals from a cart subtotal.
// Tax is rounded half away from zero; the shipping fee is waived once
// the subtotal exceeds the free-shipping threshold.
func ComputePricing(subtotal int64, taxRate float64, flatFee, freeThreshold int64) Pricing {
	tax := int64(math.Round(float64(subtotal) * taxRate))

	shipping := flatFee
	if subtotal > freeThreshold {
		shipping = 0
	}

	return Pricing{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: shipping,
		Total:       subtotal + tax + shipping,
	}
}
