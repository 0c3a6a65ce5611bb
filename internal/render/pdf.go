// Package render turns priced documents into PDF and spreadsheet files.
package render

import (
	"fmt"
	"strings"

	"signboard-admin/internal/pricing"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Company is the letterhead.
type Company struct {
	Name    string
	Address string
	GSTIN   string
	Phone   string
}

// Sheet adds the invoice-only fields to a printed document.
type Sheet struct {
	Status  string
	DueDate string
}

func money(v float64) string {
	return "Rs. " + pricing.FormatIndian(v)
}

func title(kind pricing.Kind) string {
	if kind == pricing.KindInvoice {
		return "Tax Invoice"
	}
	return "Quotation"
}

// DocumentPDF lays out a quotation or invoice on A4.
func DocumentPDF(company Company, doc pricing.Document, sheet Sheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// Letterhead
	m.AddRow(24,
		col.New(8).Add(
			text.New(company.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
			text.New(company.Address, props.Text{Top: 8, Size: 9}),
			text.New(contactLine(company), props.Text{Top: 13, Size: 9}),
		),
		text.NewCol(4, title(doc.Meta.Kind), props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	// Meta and bill-to
	meta := []string{
		"Number: " + doc.Meta.Number,
		"Date: " + doc.Meta.Date + " " + doc.Meta.Time,
	}
	if sheet.DueDate != "" {
		meta = append(meta, "Due: "+sheet.DueDate)
	}
	if sheet.Status != "" {
		meta = append(meta, "Status: "+strings.ToUpper(sheet.Status))
	}
	metaCol := col.New(6)
	for i, line := range meta {
		metaCol = metaCol.Add(text.New(line, props.Text{Top: float64(i * 5), Size: 9}))
	}
	m.AddRow(24,
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.Customer.Name, props.Text{Top: 5, Size: 9}),
			text.New("Mobile: "+doc.Customer.Mobile, props.Text{Top: 10, Size: 9}),
		),
		metaCol,
	)

	// Items
	perLine := doc.Totals.TaxMode == pricing.TaxModePerLine
	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	if perLine {
		m.AddRow(8,
			text.NewCol(1, "#", header),
			text.NewCol(4, "Item", header),
			text.NewCol(1, "Qty", headerRight),
			text.NewCol(2, "Rate", headerRight),
			text.NewCol(1, "SGST%", headerRight),
			text.NewCol(1, "CGST%", headerRight),
			text.NewCol(2, "Amount", headerRight),
		)
	} else {
		m.AddRow(8,
			text.NewCol(1, "#", header),
			text.NewCol(6, "Item", header),
			text.NewCol(1, "Qty", headerRight),
			text.NewCol(2, "Rate", headerRight),
			text.NewCol(2, "Amount", headerRight),
		)
	}

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for i, item := range doc.ValidItems() {
		name := itemLabel(item)
		if perLine {
			m.AddRow(7,
				text.NewCol(1, fmt.Sprintf("%d", i+1), cell),
				text.NewCol(4, name, cell),
				text.NewCol(1, fmt.Sprintf("%d", item.Quantity), cellRight),
				text.NewCol(2, pricing.FormatIndian(item.UnitPrice), cellRight),
				text.NewCol(1, trimZeros(item.SGSTRate), cellRight),
				text.NewCol(1, trimZeros(item.CGSTRate), cellRight),
				text.NewCol(2, pricing.FormatIndian(pricing.LineAmount(item)), cellRight),
			)
			continue
		}
		m.AddRow(7,
			text.NewCol(1, fmt.Sprintf("%d", i+1), cell),
			text.NewCol(6, name, cell),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), cellRight),
			text.NewCol(2, pricing.FormatIndian(item.UnitPrice), cellRight),
			text.NewCol(2, pricing.FormatIndian(pricing.LineAmount(item)), cellRight),
		)
	}

	// Totals
	t := doc.Totals
	totalRow := func(label, value string, bold bool) {
		style := props.Text{Size: 9}
		if bold {
			style.Style = fontstyle.Bold
		}
		valueStyle := style
		valueStyle.Align = align.Right
		m.AddRow(7,
			col.New(6),
			text.NewCol(3, label, style),
			text.NewCol(3, value, valueStyle),
		)
	}

	m.AddRow(4)
	totalRow("Subtotal", money(t.Subtotal), false)
	if t.DiscountAmount != 0 {
		totalRow(fmt.Sprintf("Discount (%s%%)", trimZeros(t.DiscountPercentage)), "- "+money(t.DiscountAmount), false)
		totalRow("After discount", money(t.AmountAfterDiscount), false)
	}
	if perLine {
		totalRow("SGST", money(t.TotalSGST), false)
		totalRow("CGST", money(t.TotalCGST), false)
	} else {
		totalRow(fmt.Sprintf("GST @ %s%%", trimZeros(t.FlatRate)), money(t.GSTAmount), false)
	}
	totalRow("Grand total", money(t.GrandTotal), true)
	if r := pricing.FormatAmount(t.RoundOff); r != "0.00" && r != "-0.00" {
		totalRow("Round off", r, false)
	}

	m.AddRow(10,
		text.NewCol(12, pricing.AmountInWords(t.GrandTotal), props.Text{Top: 3, Size: 9, Style: fontstyle.Bold}),
	)

	// GST summary
	if perLine {
		m.AddRow(8,
			text.NewCol(12, "GST summary", props.Text{Top: 2, Style: fontstyle.Bold, Size: 9}),
		)
		m.AddRow(7,
			text.NewCol(4, "Taxable value", header),
			text.NewCol(3, "SGST", headerRight),
			text.NewCol(3, "CGST", headerRight),
			text.NewCol(2, "Total tax", headerRight),
		)
		m.AddRow(7,
			text.NewCol(4, pricing.FormatIndian(t.TaxableBase), cell),
			text.NewCol(3, pricing.FormatIndian(t.TotalSGST), cellRight),
			text.NewCol(3, pricing.FormatIndian(t.TotalCGST), cellRight),
			text.NewCol(2, pricing.FormatIndian(t.TotalTax), cellRight),
		)
	}

	m.AddRow(14,
		text.NewCol(12, "This is a computer generated document.", props.Text{Top: 8, Size: 8, Align: align.Center}),
	)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate %s pdf: %w", doc.Meta.Kind, err)
	}
	return out.GetBytes(), nil
}

func contactLine(c Company) string {
	var parts []string
	if c.Phone != "" {
		parts = append(parts, "Ph: "+c.Phone)
	}
	if c.GSTIN != "" {
		parts = append(parts, "GSTIN: "+c.GSTIN)
	}
	return strings.Join(parts, "  |  ")
}

func itemLabel(item pricing.LineItem) string {
	label := item.Name
	if item.Brand != "" {
		label += " (" + item.Brand + ")"
	}
	if item.Unit != "" {
		label += " / " + item.Unit
	}
	return label
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
