package billing

import (
	"math"
	"strings"
	"time"

	"signboard-admin/internal/pricing"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Quotation is a priced offer to a customer.
type Quotation struct {
	pricing.Document
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Invoice is a bill, either issued directly or generated from a quotation.
type Invoice struct {
	pricing.Document
	Status    Status     `json:"status"`
	DueDate   string     `json:"dueDate,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DocumentInput is what a caller may set on a quotation or invoice. Everything
// else is derived.
type DocumentInput struct {
	Customer           pricing.Customer   `json:"customerDetails"`
	Items              []pricing.LineItem `json:"cart"`
	DiscountPercentage float64            `json:"discountPercentage"`
	TaxMode            pricing.TaxMode    `json:"taxMode"`
}

// MaxDocumentAmount caps the pre-tax value of a single line and of a whole
// cart, in rupees.
const MaxDocumentAmount = 1e12

// Validate checks the input. Edits must carry explicit customer details;
// new documents fall back to the walk-in defaults.
func (in DocumentInput) Validate(editing bool) error {
	if !in.TaxMode.Valid() {
		return invalid("taxMode", ErrInvalidTaxMode)
	}
	d := in.DiscountPercentage
	if math.IsNaN(d) || d < 0 || d > 100 {
		return invalid("discountPercentage", ErrInvalidDiscount)
	}

	billable := false
	var subtotal float64
	for _, item := range in.Items {
		if !validRate(item.SGSTRate) || !validRate(item.CGSTRate) {
			return invalid("cart", ErrInvalidTaxRate)
		}
		if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) {
			return invalid("cart", ErrInvalidAmount)
		}
		if !item.Valid() {
			continue
		}
		line := float64(item.Quantity) * item.UnitPrice
		subtotal += line
		if line > MaxDocumentAmount || subtotal > MaxDocumentAmount {
			return invalid("cart", ErrAmountTooLarge)
		}
		if item.UnitPrice > 0 {
			billable = true
		}
	}
	if !billable {
		return invalid("cart", ErrNoBillableItems)
	}

	if editing {
		if strings.TrimSpace(in.Customer.Name) == "" {
			return invalid("customerName", ErrMissingCustomer)
		}
		if strings.TrimSpace(in.Customer.Mobile) == "" {
			return invalid("customerMobile", ErrMissingCustomer)
		}
	}
	return nil
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 100
}
