package render

import (
	"bytes"
	"fmt"

	"signboard-admin/internal/pricing"

	"github.com/xuri/excelize/v2"
)

// ExportRow is one document in a spreadsheet export.
type ExportRow struct {
	Number     string
	Date       string
	Customer   string
	Mobile     string
	Items      int
	Subtotal   float64
	Discount   float64
	Tax        float64
	GrandTotal float64
	Status     string
	DueDate    string
}

// RowFromDocument fills the columns every document has.
func RowFromDocument(doc pricing.Document) ExportRow {
	return ExportRow{
		Number:     doc.Meta.Number,
		Date:       doc.Meta.Date,
		Customer:   doc.Customer.Name,
		Mobile:     doc.Customer.Mobile,
		Items:      len(doc.ValidItems()),
		Subtotal:   doc.Totals.Subtotal,
		Discount:   doc.Totals.DiscountAmount,
		Tax:        doc.Totals.TotalTax,
		GrandTotal: doc.Totals.GrandTotal,
	}
}

var exportHeaders = []string{"Number", "Date", "Customer", "Mobile", "Items", "Subtotal", "Discount", "Tax", "Grand Total", "Status", "Due Date"}

// DocumentsExcel writes rows to a single-sheet workbook with a totals line.
func DocumentsExcel(sheetName string, rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Documents"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{14, 12, 28, 14, 7, 14, 12, 12, 14, 11, 12}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 4, // #,##0.00
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	textStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)

	var sum ExportRow
	row := 2
	for _, r := range rows {
		rs := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rs, sanitizeExcelCell(r.Number))
		f.SetCellValue(sheetName, "B"+rs, sanitizeExcelCell(r.Date))
		f.SetCellValue(sheetName, "C"+rs, sanitizeExcelCell(r.Customer))
		f.SetCellValue(sheetName, "D"+rs, sanitizeExcelCell(r.Mobile))
		f.SetCellValue(sheetName, "E"+rs, r.Items)
		f.SetCellValue(sheetName, "F"+rs, r.Subtotal)
		f.SetCellValue(sheetName, "G"+rs, r.Discount)
		f.SetCellValue(sheetName, "H"+rs, r.Tax)
		f.SetCellValue(sheetName, "I"+rs, r.GrandTotal)
		f.SetCellValue(sheetName, "J"+rs, sanitizeExcelCell(r.Status))
		f.SetCellValue(sheetName, "K"+rs, sanitizeExcelCell(r.DueDate))

		f.SetCellStyle(sheetName, "A"+rs, "E"+rs, textStyle)
		f.SetCellStyle(sheetName, "F"+rs, "I"+rs, moneyStyle)
		f.SetCellStyle(sheetName, "J"+rs, "K"+rs, textStyle)

		sum.Subtotal += r.Subtotal
		sum.Discount += r.Discount
		sum.Tax += r.Tax
		sum.GrandTotal += r.GrandTotal
		row++
	}

	// Totals
	rs := fmt.Sprintf("%d", row+1)
	f.SetCellValue(sheetName, "E"+rs, "Total")
	f.SetCellValue(sheetName, "F"+rs, sum.Subtotal)
	f.SetCellValue(sheetName, "G"+rs, sum.Discount)
	f.SetCellValue(sheetName, "H"+rs, sum.Tax)
	f.SetCellValue(sheetName, "I"+rs, sum.GrandTotal)
	f.SetCellStyle(sheetName, "E"+rs, "I"+rs, totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell stops spreadsheet apps from evaluating user text as a
// formula by quoting a dangerous leading character.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
