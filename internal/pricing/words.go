package pricing

import (
	"math"
	"strings"
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// ToWords spells n on the Indian scale, e.g. 123456 is
// "One Lakh Twenty Three Thousand Four Hundred Fifty Six".
// Negative input is a caller error; it is spelled by magnitude.
func ToWords(n int64) string {
	if n < 0 {
		// -(n+1) cannot overflow, so MinInt64 stays in range.
		return spell(uint64(-(n + 1)) + 1)
	}
	return spell(uint64(n))
}

// AmountInWords rounds to whole rupees and wraps the words for a printed
// document. Amounts past the uint64 range are clamped and NaN reads as zero.
func AmountInWords(amount float64) string {
	return "INR " + spell(wholeRupees(amount)) + " Only."
}

func wholeRupees(amount float64) uint64 {
	r := math.Round(math.Abs(amount))
	switch {
	case math.IsNaN(r):
		return 0
	case r >= maxRupees:
		return math.MaxUint64
	}
	return uint64(r)
}

// maxRupees is 2^64, the first float64 that does not fit in a uint64.
const maxRupees = 1 << 64

func spell(n uint64) string {
	if n == 0 {
		return "Zero"
	}
	return strings.Join(indianParts(n), " ")
}

func indianParts(n uint64) []string {
	var parts []string

	if n >= crore {
		// counts above 99 crore are spelled with the full scale
		parts = append(parts, indianParts(n/crore)...)
		parts = append(parts, "Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, underHundred(n/lakh)...)
		parts = append(parts, "Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, underHundred(n/thousand)...)
		parts = append(parts, "Thousand")
		n %= thousand
	}
	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}
	return append(parts, underHundred(n)...)
}

func underHundred(n uint64) []string {
	switch {
	case n == 0:
		return nil
	case n < 20:
		return []string{ones[n]}
	case n%10 == 0:
		return []string{tens[n/10]}
	default:
		return []string{tens[n/10], ones[n%10]}
	}
}
