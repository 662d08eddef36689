package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	excelSheet       = "Report"
	headerFillColor  = "4472C4"
	stripeFillColor  = "F2F2F2"
	defaultFontSize  = 10
	defaultFontStyle = "Arial"
)

// ExcelExporter writes tables with excelize.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) Extension() string { return ".xlsx" }

// Export writes the title rows, a styled header with a frozen pane and an
// auto filter, then the data rows with striped fills.
func (e *ExcelExporter) Export(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	if t.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14, Family: defaultFontStyle},
		})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		f.SetCellValue(excelSheet, cellName(1, row), t.Title)
		f.SetCellStyle(excelSheet, cellName(1, row), cellName(1, row), titleStyle)
		row++

		if t.Subtitle != "" {
			f.SetCellValue(excelSheet, cellName(1, row), t.Subtitle)
			row++
		}
		if !t.GeneratedAt.IsZero() {
			f.SetCellValue(excelSheet, cellName(1, row), "Generated: "+t.GeneratedAt.Format("2006-01-02 15:04:05"))
			row++
		}
		row++
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: defaultFontSize, Family: defaultFontStyle, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	stripeStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: defaultFontSize, Family: defaultFontStyle},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripeFillColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	headerRow := row
	for col, h := range t.Headers {
		cell := cellName(col+1, row)
		f.SetCellValue(excelSheet, cell, h)
		f.SetCellStyle(excelSheet, cell, cell, headerStyle)

		if col < len(t.Widths) && t.Widths[col] > 0 {
			name, _ := excelize.ColumnNumberToName(col + 1)
			f.SetColWidth(excelSheet, name, name, t.Widths[col])
		}
	}
	row++

	for i, values := range t.Rows {
		for col, v := range values {
			cell := cellName(col+1, row)
			f.SetCellValue(excelSheet, cell, v)
			if i%2 == 1 {
				f.SetCellStyle(excelSheet, cell, cell, stripeStyle)
			}
		}
		row++
	}

	if len(t.Headers) > 0 {
		f.SetPanes(excelSheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: cellName(1, headerRow+1),
			ActivePane:  "bottomLeft",
		})
		lastRow := headerRow + len(t.Rows)
		f.AutoFilter(excelSheet, cellName(1, headerRow)+":"+cellName(len(t.Headers), lastRow), nil)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
