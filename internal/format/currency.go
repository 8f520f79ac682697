// Package format turns raw transaction fields into display strings.
//
// Every function here is pure: no state, no I/O, and bad input degrades to a
// placeholder instead of an error.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"dompet/internal/core"
)

const (
	// CurrencyPrefix precedes every formatted amount.
	CurrencyPrefix = "Rp "
	// Placeholder is shown for missing or unparseable values.
	Placeholder = "-"
)

var printer = message.NewPrinter(language.Indonesian)

// Group formats n with id-ID digit grouping ("1.500.000").
func Group(n int64) string {
	return printer.Sprintf("%d", n)
}

// Rupiah formats an amount in the smallest unit with the currency prefix.
// Zero formats as "Rp 0".
func Rupiah(amount int64) string {
	return CurrencyPrefix + Group(amount)
}

// SignedRupiah prefixes the absolute amount with "+" for income and "−" for
// expense.
func SignedRupiah(amount int64, t core.TxType) string {
	if amount < 0 {
		amount = -amount
	}
	sign := "−"
	if t == core.Income {
		sign = "+"
	}
	return sign + Rupiah(amount)
}

// Percent formats a pre-computed percentage with id-ID separators and at
// most three fraction digits ("12,5%").
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return printer.Sprint(number.Decimal(p, number.MaxFractionDigits(3))) + "%"
}

// GroupAmount regroups a live amount field value ("15000" -> "15.000").
func GroupAmount(s string) string {
	return core.GroupDigits(s)
}
