// Package export writes the call history to spreadsheet and document
// formats for the download action on the inbox.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/frontdeskhq/console/internal/models"
)

type Format string

const (
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
)

// Exporter renders one table into one file format.
type Exporter interface {
	Export(table *Table, writer io.Writer) error
	ContentType() string
	FileExtension() string
}

// Table is the flat call-history table every exporter consumes.
type Table struct {
	Title     string
	CreatedAt time.Time
	Headers   []string
	Rows      [][]string
}

type Service struct {
	exporters map[Format]Exporter
}

func NewService() *Service {
	return &Service{
		exporters: map[Format]Exporter{
			FormatExcel: NewExcelExporter(),
			FormatCSV:   NewCSVExporter(),
			FormatPDF:   NewPDFExporter(),
		},
	}
}

// Export renders the table in the requested format and returns the bytes
// plus the file extension to save them under.
func (s *Service) Export(table *Table, format Format) ([]byte, string, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
	var buf bytes.Buffer
	if err := exporter.Export(table, &buf); err != nil {
		return nil, "", fmt.Errorf("export failed: %w", err)
	}
	return buf.Bytes(), exporter.FileExtension(), nil
}

var callHeaders = []string{"Date", "Caller", "Number", "Duration", "Outcome", "Summary"}

// CallTable flattens calls into the export table.
func CallTable(calls []models.Call, now time.Time) *Table {
	rows := make([][]string, 0, len(calls))
	for _, c := range calls {
		rows = append(rows, []string{
			c.StartedAt.Format("2006-01-02 15:04"),
			c.CallerName,
			c.CallerNumber,
			fmtDuration(c.DurationSeconds),
			c.Outcome,
			c.Summary,
		})
	}
	return &Table{
		Title:     "Call history",
		CreatedAt: now,
		Headers:   callHeaders,
		Rows:      rows,
	}
}

func fmtDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
