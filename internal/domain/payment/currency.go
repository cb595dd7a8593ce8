// internal/domain/payment/currency.go
package payment

import "strings"

// countryCurrencies maps ISO 3166-1 alpha-2 country codes to the
// lowercase ISO 4217 currency code the gateway expects.
var countryCurrencies = map[string]string{
	"NG": "ngn",
	"GH": "ghs",
	"KE": "kes",
	"ZA": "zar",
	"US": "usd",
	"CA": "cad",
	"GB": "gbp",
	"IE": "eur",
	"DE": "eur",
	"FR": "eur",
	"ES": "eur",
	"IT": "eur",
	"NL": "eur",
	"AU": "aud",
	"IN": "inr",
	"AE": "aed",
}

// DefaultCurrency is used when a country has no mapping
const DefaultCurrency = "usd"

// CurrencyForCountry resolves the checkout currency for a country code.
// Unknown or empty codes fall back to DefaultCurrency.
func CurrencyForCountry(country string) string {
	if currency, ok := countryCurrencies[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return currency
	}
	return DefaultCurrency
}
