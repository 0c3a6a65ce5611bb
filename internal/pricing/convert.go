package pricing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidSourceDocument = errors.New("invalid_source_document")

// Convert derives an invoice from a quotation. The quotation is read, never
// modified, and its stored totals are ignored in favour of a fresh calculation.
func (a *Assembler) Convert(quotation Document, meta Meta) (Document, error) {
	if len(quotation.Items) == 0 {
		return Document{}, fmt.Errorf("%w: quotation has no items", ErrInvalidSourceDocument)
	}
	if strings.TrimSpace(quotation.Customer.Name) == "" || strings.TrimSpace(quotation.Customer.Mobile) == "" {
		return Document{}, fmt.Errorf("%w: quotation is missing customer details", ErrInvalidSourceDocument)
	}

	meta.Kind = KindInvoice
	invoice := Document{
		Customer:           quotation.Customer,
		Items:              slices.Clone(quotation.Items),
		DiscountPercentage: quotation.DiscountPercentage,
		TaxMode:            ResolveTaxMode(quotation.TaxMode, quotation.Items),
		FlatRate:           quotation.FlatRate,
		Meta:               meta,
		CreatedAt:          a.clock.Now(),
		SourceQuotationID:  quotation.ID,
	}
	if invoice.FlatRate <= 0 {
		invoice.FlatRate = a.flatRate
	}
	invoice.Totals = Calculate(invoice.Items, invoice.DiscountPercentage, invoice.TaxMode, invoice.FlatRate)
	return invoice, nil
}
