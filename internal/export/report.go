package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReportRow is one processed source file in a batch summary.
type ReportRow struct {
	Source        string
	Status        string
	UseCase       string
	UseCaseLabel  string
	Supplier      string
	InvoiceNumber string
	InvoiceDate   string
	Currency      string
	TotalNet      *float64
	TotalTax      *float64
	TotalAmount   *float64
	Attempts      int
	FailureKind   string
	Missing       []string
	XMLPath       string
}

const reportSheet = "Invoices"

var reportHeaders = []string{
	"Source File",
	"Status",
	"Use Case",
	"Use Case Label",
	"Supplier",
	"Invoice Number",
	"Invoice Date",
	"Currency",
	"Net",
	"Tax",
	"Gross",
	"Attempts",
	"Failure",
	"Missing Fields",
	"XML File",
}

// WriteReport returns an XLSX workbook (as bytes) with one row per batch item.
func WriteReport(rows []ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, err
	}

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(reportSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
		_ = f.SetCellStyle(reportSheet, "A1", last, style)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(reportSheet, cell, v)
		}
		write(1, r.Source)
		write(2, r.Status)
		write(3, r.UseCase)
		write(4, r.UseCaseLabel)
		write(5, r.Supplier)
		write(6, r.InvoiceNumber)
		write(7, r.InvoiceDate)
		write(8, r.Currency)
		write(9, amount(r.TotalNet))
		write(10, amount(r.TotalTax))
		write(11, amount(r.TotalAmount))
		write(12, r.Attempts)
		write(13, r.FailureKind)
		write(14, strings.Join(r.Missing, ", "))
		write(15, r.XMLPath)
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 36) // source
	_ = f.SetColWidth(reportSheet, "B", "C", 18)
	_ = f.SetColWidth(reportSheet, "D", "E", 32)
	_ = f.SetColWidth(reportSheet, "F", "H", 14)
	_ = f.SetColWidth(reportSheet, "I", "K", 12) // amounts
	_ = f.SetColWidth(reportSheet, "N", "N", 40)
	_ = f.SetColWidth(reportSheet, "O", "O", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// amount leaves null totals as empty cells.
func amount(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
