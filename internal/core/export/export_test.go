package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/frontdeskhq/console/internal/models"
)

func sampleCalls() []models.Call {
	return []models.Call{
		{
			ID:              "call-1",
			CallerName:      "Dana Reyes",
			CallerNumber:    "+1 555 0101",
			StartedAt:       time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			DurationSeconds: 93,
			Outcome:         "booked",
			Summary:         "Booked a pool cleaning for Friday",
		},
		{
			ID:              "call-2",
			CallerName:      "Unknown",
			CallerNumber:    "+1 555 0102",
			StartedAt:       time.Date(2025, 3, 14, 11, 5, 0, 0, time.UTC),
			DurationSeconds: 12,
			Outcome:         "missed",
			Summary:         "",
		},
	}
}

func TestCallTable(t *testing.T) {
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	table := CallTable(sampleCalls(), now)

	assert.Equal(t, "Call history", table.Title)
	assert.Equal(t, now, table.CreatedAt)
	assert.Equal(t, callHeaders, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"2025-03-14 09:30", "Dana Reyes", "+1 555 0101", "1:33", "booked", "Booked a pool cleaning for Friday"}, table.Rows[0])
	assert.Equal(t, "0:12", table.Rows[1][3])
}

func TestCSVExporterRoundTrip(t *testing.T) {
	table := CallTable(sampleCalls(), time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter().Export(table, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, callHeaders, records[0])
	assert.Equal(t, "Dana Reyes", records[1][1])
	assert.Equal(t, "missed", records[2][4])
}

func TestExcelExporter(t *testing.T) {
	table := CallTable(sampleCalls(), time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewExcelExporter().Export(table, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Calls", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", got)

	got, err = f.GetCellValue("Calls", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", got)

	got, err = f.GetCellValue("Calls", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Booked a pool cleaning for Friday", got)
}

func TestPDFExporter(t *testing.T) {
	table := CallTable(sampleCalls(), time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter().Export(table, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPDFExporterRejectsEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	err := NewPDFExporter().Export(&Table{}, &buf)
	assert.Error(t, err)
}

func TestServiceDispatch(t *testing.T) {
	svc := NewService()
	table := CallTable(sampleCalls(), time.Now())

	data, ext, err := svc.Export(table, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ".csv", ext)
	assert.NotEmpty(t, data)

	_, _, err = svc.Export(table, Format("docx"))
	assert.ErrorContains(t, err, "unsupported export format")
}
