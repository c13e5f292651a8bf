package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders the call table as a landscape A4 document.
type PDFExporter struct {
	orientation string
	pageSize    string
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		orientation: "L",
		pageSize:    "A4",
	}
}

func (p *PDFExporter) Export(table *Table, writer io.Writer) error {
	if len(table.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	pdf := gofpdf.New(p.orientation, "mm", p.pageSize, "")
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, table.Title)
		pdf.Ln(12)
	}
	if !table.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", table.CreatedAt.Format("2006-01-02 15:04:05")))
		pdf.Ln(10)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	leftMargin, _, rightMargin, bottomMargin := pdf.GetMargins()
	usableWidth := pageWidth - leftMargin - rightMargin
	breakY := pageHeight - bottomMargin - 10

	// The last column carries the summary text, so it gets double width.
	numCols := len(table.Headers)
	colWidth := usableWidth / float64(numCols+1)
	widthFor := func(col int) float64 {
		if col == numCols-1 {
			return colWidth * 2
		}
		return colWidth
	}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(31, 41, 55)
		pdf.SetTextColor(255, 255, 255)
		for i, header := range table.Headers {
			pdf.CellFormat(widthFor(i), 7, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", 10)
	}
	drawHeader()

	for _, row := range table.Rows {
		for i, value := range row {
			pdf.CellFormat(widthFor(i), 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		if pdf.GetY() > breakY {
			pdf.AddPage()
			drawHeader()
		}
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) ContentType() string { return "application/pdf" }

func (p *PDFExporter) FileExtension() string { return ".pdf" }
