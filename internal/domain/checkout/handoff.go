// internal/domain/checkout/handoff.go
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dajow/dajow-backend/internal/domain/order"
)

// BuildHandoffMessage renders the plain-text order summary sent through
// the manual payment channel
func BuildHandoffMessage(o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello! I would like to pay for order %s.\n\n", o.OrderNumber)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%dx %s - %s\n", item.Quantity, item.Name, formatAmount(item.TotalPrice, o.Currency))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s", formatAmount(o.SubtotalAmount, o.Currency))
	fmt.Fprintf(&b, "\nTax: %s", formatAmount(o.TaxAmount, o.Currency))
	if o.ShippingAmount > 0 {
		fmt.Fprintf(&b, "\nShipping: %s", formatAmount(o.ShippingAmount, o.Currency))
	} else {
		b.WriteString("\nShipping: Free")
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatAmount(o.TotalAmount, o.Currency))
	fmt.Fprintf(&b, "\nName: %s", o.ShippingDetails.FullName)
	fmt.Fprintf(&b, "\nDelivery: %s, %s, %s", o.ShippingDetails.Address, o.ShippingDetails.City, o.ShippingDetails.State)

	return b.String()
}

// BuildHandoffURL builds the wa.me deep link with the prefilled order
// summary. businessNumber must be digits in international format.
func BuildHandoffURL(businessNumber string, o *order.Order) string {
	message := BuildHandoffMessage(o)
	return fmt.Sprintf("https://wa.me/%s?text=%s", businessNumber, url.QueryEscape(message))
}

// formatAmount renders minor units as a major-unit string, e.g. 5225
// kobo as "NGN 52.25"
func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, strings.ToUpper(currency), minor/100, minor%100)
}
