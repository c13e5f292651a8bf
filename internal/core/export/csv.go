package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (e *CSVExporter) Export(table *Table, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) FileExtension() string { return ".csv" }
