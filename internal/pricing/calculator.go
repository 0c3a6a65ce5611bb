package pricing

import (
	"math"
	"strings"
)

// DefaultFlatRate is the GST percentage applied by flat-rate documents.
const DefaultFlatRate = 18.0

// TaxMode tags which tax model a document uses. The two are never mixed.
type TaxMode string

const (
	TaxModeAuto    TaxMode = ""         // resolved from the items at assembly time
	TaxModePerLine TaxMode = "per_line" // SGST + CGST rates carried by every item
	TaxModeFlat    TaxMode = "flat"     // one rate on the discounted amount
)

// Valid reports whether m is a known mode, auto included.
func (m TaxMode) Valid() bool {
	switch m {
	case TaxModeAuto, TaxModePerLine, TaxModeFlat:
		return true
	}
	return false
}

// LineItem - one row of a cart
type LineItem struct {
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
	SGSTRate  float64 `json:"sgst"`
	CGSTRate  float64 `json:"cgst"`
}

// Valid is the Calculator's filter rule.
func (i LineItem) Valid() bool {
	if strings.TrimSpace(i.Name) == "" {
		return false
	}
	if i.Quantity <= 0 {
		return false
	}
	if math.IsNaN(i.UnitPrice) || math.IsInf(i.UnitPrice, 0) || i.UnitPrice < 0 {
		return false
	}
	return true
}

// LineTax is the per-line GST split of a single item.
type LineTax struct {
	Amount float64 `json:"amount"`
	SGST   float64 `json:"sgst"`
	CGST   float64 `json:"cgst"`
	Base   float64 `json:"base"` // back-calculated taxable value
}

// Totals is the derived view of a document. It is never edited by hand.
type Totals struct {
	TaxMode             TaxMode `json:"taxMode"`
	Subtotal            float64 `json:"subtotal"`
	DiscountPercentage  float64 `json:"discountPercentage"`
	DiscountAmount      float64 `json:"discountAmount"`
	AmountAfterDiscount float64 `json:"amountAfterDiscount"`

	// per-line mode
	TotalSGST   float64 `json:"totalSgst"`
	TotalCGST   float64 `json:"totalCgst"`
	TaxableBase float64 `json:"taxableBase"`

	// flat mode
	FlatRate  float64 `json:"flatRate,omitempty"`
	GSTAmount float64 `json:"gstAmount"`

	TotalTax   float64 `json:"totalTax"`
	GrandTotal float64 `json:"grandTotal"`
	RoundOff   float64 `json:"roundOff"`
}

// FilterValidItems drops the rows the Calculator must ignore. Order is preserved
// and the result never aliases the input.
func FilterValidItems(items []LineItem) []LineItem {
	valid := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Valid() {
			valid = append(valid, item)
		}
	}
	return valid
}

// LineAmount is quantity * price, unrounded.
func LineAmount(item LineItem) float64 {
	return float64(item.Quantity) * item.UnitPrice
}

// Subtotal sums the line amounts of the valid items.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range FilterValidItems(items) {
		sum += LineAmount(item)
	}
	return sum
}

// DiscountAmount trusts pct; callers validate the 0-100 range at the edge.
func DiscountAmount(subtotal, pct float64) float64 {
	return subtotal * pct / 100
}

// CalcLineTax computes SGST/CGST for one item on its undiscounted amount.
func CalcLineTax(item LineItem) LineTax {
	amount := LineAmount(item)
	return LineTax{
		Amount: amount,
		SGST:   amount * item.SGSTRate / 100,
		CGST:   amount * item.CGSTRate / 100,
		Base:   amount / (1 + (item.SGSTRate+item.CGSTRate)/100),
	}
}

// InferTaxMode picks per-line when any valid item carries a GST rate.
func InferTaxMode(items []LineItem) TaxMode {
	for _, item := range FilterValidItems(items) {
		if item.SGSTRate != 0 || item.CGSTRate != 0 {
			return TaxModePerLine
		}
	}
	return TaxModeFlat
}

// ResolveTaxMode returns mode unless it is auto, in which case it is inferred.
func ResolveTaxMode(mode TaxMode, items []LineItem) TaxMode {
	if mode == TaxModePerLine || mode == TaxModeFlat {
		return mode
	}
	return InferTaxMode(items)
}

// RoundOff is the informational distance to the nearest rupee.
func RoundOff(amount float64) float64 {
	return math.Round(amount) - amount
}

// Calculate runs the whole pipeline for one tax mode. A nil or all-invalid item
// list yields zero totals.
func Calculate(items []LineItem, discountPct float64, mode TaxMode, flatRate float64) Totals {
	valid := FilterValidItems(items)
	mode = ResolveTaxMode(mode, valid)

	t := Totals{
		TaxMode:            mode,
		DiscountPercentage: discountPct,
	}
	for _, item := range valid {
		t.Subtotal += LineAmount(item)
	}
	t.DiscountAmount = DiscountAmount(t.Subtotal, discountPct)
	t.AmountAfterDiscount = t.Subtotal - t.DiscountAmount

	switch mode {
	case TaxModePerLine:
		for _, item := range valid {
			lt := CalcLineTax(item)
			t.TotalSGST += lt.SGST
			t.TotalCGST += lt.CGST
			t.TaxableBase += lt.Base
		}
		t.TotalTax = t.TotalSGST + t.TotalCGST
	default:
		t.FlatRate = flatRate
		t.GSTAmount = t.AmountAfterDiscount * flatRate / 100
		t.TotalTax = t.GSTAmount
	}

	t.GrandTotal = t.AmountAfterDiscount + t.TotalTax
	t.RoundOff = RoundOff(t.GrandTotal)
	return t
}
