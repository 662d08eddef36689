// Package report renders match results and extraction logs as xlsx or pdf
// tables.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// ParseFormat accepts "xlsx", "excel" or "pdf". Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Table is one titled grid of values.
type Table struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Landscape   bool

	Headers []string
	Rows    [][]interface{}
	// Widths per column, in excel character units. Missing entries keep
	// the default width.
	Widths []float64
}

// Exporter writes a table in one file format.
type Exporter interface {
	Export(t *Table, w io.Writer) error
	ContentType() string
	Extension() string
}

// ExporterFor returns the exporter of a format.
func ExporterFor(f Format) (Exporter, error) {
	switch f {
	case FormatExcel:
		return NewExcelExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", f)
	}
}

// Filename builds a download name like "matches-20260102-150405.xlsx".
func Filename(prefix string, e Exporter, at time.Time) string {
	return prefix + "-" + at.Format("20060102-150405") + e.Extension()
}
