package pricing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"signboard-admin/internal/clock"
)

const (
	DefaultCustomerName   = "Walk-in Customer"
	DefaultCustomerMobile = "Not Provided"

	DateLayout = "02/01/2006"
	TimeLayout = "3:04:05 pm"
)

// Kind distinguishes quotations from invoices.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

// NumberPrefix is the human-readable prefix of a document number.
func (k Kind) NumberPrefix() string {
	if k == KindInvoice {
		return "INV"
	}
	return "QTN"
}

// Customer - billing identity on a document
type Customer struct {
	Name   string `json:"customerName"`
	Mobile string `json:"customerMobile"`
}

// WithDefaults fills the blanks a printed document must never show.
func (c Customer) WithDefaults() Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Mobile = strings.TrimSpace(c.Mobile)
	if c.Name == "" {
		c.Name = DefaultCustomerName
	}
	if c.Mobile == "" {
		c.Mobile = DefaultCustomerMobile
	}
	return c
}

// Meta identifies one quotation or invoice.
type Meta struct {
	Number string `json:"number"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Kind   Kind   `json:"kind"`
}

// NewMeta numbers a document from the last six digits of the millisecond clock.
// Two documents created in the same millisecond share a number.
func NewMeta(kind Kind, now time.Time) Meta {
	return Meta{
		Number: fmt.Sprintf("%s-%06d", kind.NumberPrefix(), now.UnixMilli()%1000000),
		Date:   now.Format(DateLayout),
		Time:   now.Format(TimeLayout),
		Kind:   kind,
	}
}

// Document is the computed, renderable snapshot of a quotation or invoice.
// Totals are a cache of what Calculate returns for Items and DiscountPercentage.
type Document struct {
	ID                 string     `json:"id,omitempty"`
	Customer           Customer   `json:"customerDetails"`
	Items              []LineItem `json:"cart"`
	DiscountPercentage float64    `json:"discountPercentage"`
	TaxMode            TaxMode    `json:"taxMode"`
	FlatRate           float64    `json:"flatRate"`
	Meta               Meta       `json:"documentDetails"`
	Totals             Totals     `json:"totals"`
	CreatedAt          time.Time  `json:"createdAt"`
	SourceQuotationID  string     `json:"quotationId,omitempty"`
}

// ValidItems returns the rows that count toward the totals.
func (d Document) ValidItems() []LineItem {
	return FilterValidItems(d.Items)
}

// AmountInWords spells the rounded grand total.
func (d Document) AmountInWords() string {
	return AmountInWords(d.Totals.GrandTotal)
}

// Assembler packages inputs into documents using the Calculator.
type Assembler struct {
	clock    clock.Clock
	flatRate float64
}

func NewAssembler(c clock.Clock, flatRate float64) *Assembler {
	if c == nil {
		c = clock.System()
	}
	return &Assembler{clock: c, flatRate: flatRate}
}

// Assemble never fails: an empty cart gives an all-zero document.
func (a *Assembler) Assemble(items []LineItem, customer Customer, discountPct float64, meta Meta, mode TaxMode) Document {
	doc := Document{
		Customer:           customer.WithDefaults(),
		Items:              slices.Clone(items),
		DiscountPercentage: discountPct,
		TaxMode:            ResolveTaxMode(mode, items),
		FlatRate:           a.flatRate,
		Meta:               meta,
		CreatedAt:          a.clock.Now(),
	}
	doc.Totals = Calculate(doc.Items, doc.DiscountPercentage, doc.TaxMode, doc.FlatRate)
	return doc
}

// Recalculate refreshes the cached totals from the items and discount. Records
// written before the tax mode was stored get it inferred here.
func (a *Assembler) Recalculate(doc Document) Document {
	doc.Items = slices.Clone(doc.Items)
	doc.TaxMode = ResolveTaxMode(doc.TaxMode, doc.Items)
	if doc.TaxMode == TaxModeFlat && doc.FlatRate <= 0 {
		doc.FlatRate = a.flatRate
	}
	doc.Totals = Calculate(doc.Items, doc.DiscountPercentage, doc.TaxMode, doc.FlatRate)
	return doc
}
