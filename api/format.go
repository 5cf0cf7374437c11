package api

import "github.com/shopspring/decimal"

// FormatAmount renders an amount for people, rounded to two decimals and
// followed by the currency code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	s := amount.Round(2).String()
	if currency == "" {
		return s
	}
	return s + " " + currency
}
