// Package core provides amount-input normalization utilities.
//
// Amounts travel to the API as plain digit strings in the smallest currency
// unit; the form shows them grouped with "." every three digits.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// GroupSeparator is inserted between digit groups in the amount field.
const GroupSeparator = "."

var ErrInvalidAmount = errors.New("invalid amount")

// AmountDigits strips every non-digit character from s.
//
// Examples:
//
//	AmountDigits("15.000")   -> "15000"
//	AmountDigits("Rp 1,5k")  -> "15"
//	AmountDigits("")         -> ""
func AmountDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GroupDigits normalizes s to its digits and inserts GroupSeparator every
// three digits from the right. An input without digits yields "".
func GroupDigits(s string) string {
	digits := AmountDigits(s)
	if digits == "" {
		return ""
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(GroupSeparator)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount converts a digit string (grouping allowed) to an integer amount.
// Returns ErrInvalidAmount when no digits remain or the value overflows.
func ParseAmount(s string) (int64, error) {
	digits := AmountDigits(s)
	if digits == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
