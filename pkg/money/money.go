// Package money formats monetary amounts for the operating currency (BRL).
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount with pt-BR grouping and decimals, e.g. "R$ 5.000,00".
//
// This function is PURE:
// - No side effects
// - Fully deterministic
func FormatBRL(amount float64) string {
	return "R$ " + printer.Sprintf("%v",
		number.Decimal(amount,
			number.MinFractionDigits(2),
			number.MaxFractionDigits(2),
		),
	)
}
