package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter struct {
	sheetName string
}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{sheetName: "Calls"}
}

func (e *ExcelExporter) Export(table *Table, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", e.sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F2937"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for colIdx, header := range table.Headers {
		cell := columnName(colIdx+1) + "1"
		f.SetCellValue(e.sheetName, cell, header)
		f.SetCellStyle(e.sheetName, cell, cell, headerStyle)
	}
	// The summary column carries sentences; give it room.
	if n := len(table.Headers); n > 0 {
		f.SetColWidth(e.sheetName, "A", "A", 17)
		f.SetColWidth(e.sheetName, columnName(n), columnName(n), 60)
	}

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			cell := columnName(colIdx+1) + strconv.Itoa(rowIdx+2)
			f.SetCellValue(e.sheetName, cell, value)
		}
	}

	if len(table.Headers) > 0 {
		f.SetPanes(e.sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
		lastCol := columnName(len(table.Headers))
		f.AutoFilter(e.sheetName, fmt.Sprintf("A1:%s%d", lastCol, len(table.Rows)+1), nil)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) FileExtension() string { return ".xlsx" }

// columnName converts a column number to its sheet name (1 -> A, 27 -> AA).
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}
