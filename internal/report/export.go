package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"smartcity-ops/internal/domain"
)

// BuildPDF renders the operations report as a PDF.
func BuildPDF(entries []domain.ReportEntry, generatedAt time.Time) ([]byte, error) {
	summary := Summarize(entries)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "City Operations Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Open items: %d (critical: %d)", summary.Total, summary.Critical))
	pdf.Ln(5)
	for category, n := range summary.ByCategory {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", category, n))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(35, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Location", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "MFY", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Metric", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		pdf.CellFormat(35, 6, e.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, e.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, e.MFY, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, e.MetricLabel, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, e.Value, "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, string(e.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the operations report as a workbook.
func BuildXLSX(entries []domain.ReportEntry, generatedAt time.Time) ([]byte, error) {
	summary := Summarize(entries)

	f := excelize.NewFile()
	summarySheet := "summary"
	itemsSheet := "items"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "City Operations Report")
	_ = f.SetCellValue(summarySheet, "A3", "Generated")
	_ = f.SetCellValue(summarySheet, "B3", generatedAt.UTC().Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A4", "Open items")
	_ = f.SetCellValue(summarySheet, "B4", summary.Total)
	_ = f.SetCellValue(summarySheet, "A5", "Critical")
	_ = f.SetCellValue(summarySheet, "B5", summary.Critical)
	row := 7
	for category, n := range summary.ByCategory {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), category)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), n)
		row++
	}

	headers := []string{"ID", "Timestamp", "Category", "Location", "MFY", "Metric", "Value", "Status", "Responsible"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(itemsSheet, cell, h)
	}
	for i, e := range entries {
		values := []any{e.ID, e.Timestamp, e.Category, e.Location, e.MFY, e.MetricLabel, e.Value, string(e.Status), e.Responsible}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(itemsSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
