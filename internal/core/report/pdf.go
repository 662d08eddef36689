package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter writes tables with gofpdf on A4 pages.
type PDFExporter struct {
	fontSize float64
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{fontSize: defaultFontSize}
}

func (p *PDFExporter) ContentType() string { return "application/pdf" }

func (p *PDFExporter) Extension() string { return ".pdf" }

func (p *PDFExporter) Export(t *Table, w io.Writer) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	orientation := "P"
	if t.Landscape {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, tr(t.Title))
		pdf.Ln(12)
	}
	if t.Subtitle != "" {
		pdf.SetFont("Arial", "", p.fontSize)
		pdf.MultiCell(0, 5, tr(t.Subtitle), "", "", false)
		pdf.Ln(4)
	}
	if !t.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, "Generated: "+t.GeneratedAt.Format("2006-01-02 15:04:05"))
		pdf.Ln(8)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(t.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", p.fontSize)
		pdf.SetFillColor(0x44, 0x72, 0xC4)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Headers {
			pdf.CellFormat(colWidth, 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", p.fontSize)
	}
	header()

	for i, values := range t.Rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(0xF2, 0xF2, 0xF2)
		}
		for _, v := range values {
			pdf.CellFormat(colWidth, 6, tr(fmt.Sprintf("%v", v)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
