package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleEmails() []*core.EmailRecord {
	return []*core.EmailRecord{
		{
			ID:              "m1",
			From:            "billing@example.com",
			To:              "me@example.com",
			Subject:         "Invoice",
			Snippet:         "Your invoice is ready",
			Labels:          []string{"INBOX", "IMPORTANT"},
			HasAttachments:  true,
			Date:            time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
			DetectedAmounts: []float64{120, 19.99},
		},
		{
			ID:           "m2",
			From:         "news@example.com",
			Subject:      "Newsletter",
			InternalDate: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC).UnixMilli(),
		},
	}
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir, zap.NewNop())

	report, err := exporter.Export(context.Background(), sampleEmails(), "invoices")
	require.NoError(t, err)
	assert.Equal(t, "invoices.csv", report.Filename)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, filepath.Join(dir, "invoices.csv"), report.Filepath)

	rows := readAll(t, report.Filepath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"ID", "Date", "From", "To", "Subject", "Snippet",
		"Labels", "Has_Attachments", "Detected_Amounts",
	}, rows[0])
	assert.Equal(t, []string{
		"m1", "2024-03-15 10:30:00", "billing@example.com", "me@example.com",
		"Invoice", "Your invoice is ready", "INBOX, IMPORTANT", "Yes", "$120.00, $19.99",
	}, rows[1])

	// Second record has no header date, so internalDate fills the column.
	assert.Equal(t, "m2", rows[2][0])
	assert.NotEmpty(t, rows[2][1])
	assert.Equal(t, "No", rows[2][7])
	assert.Equal(t, "", rows[2][8])
}

func TestExportGeneratesFilename(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir, zap.NewNop())

	report, err := exporter.Export(context.Background(), sampleEmails(), "")
	require.NoError(t, err)
	assert.Contains(t, report.Filename, "filtered_emails_")
	assert.Contains(t, report.Filename, ".csv")
	_, err = os.Stat(report.Filepath)
	require.NoError(t, err)
}

func TestExportCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "csv")
	exporter := NewCSVExporter(dir, zap.NewNop())

	_, err := exporter.Export(context.Background(), sampleEmails(), "out")
	require.NoError(t, err)
}

func TestAppendDeduplicatesByID(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir, zap.NewNop())

	report, err := exporter.Export(context.Background(), sampleEmails(), "merged")
	require.NoError(t, err)

	// m2 repeats and must keep its original row; m3 is new.
	extra := []*core.EmailRecord{
		{ID: "m2", Subject: "changed"},
		{ID: "m3", Subject: "Receipt"},
	}
	appended, err := exporter.Append(context.Background(), extra, report.Filepath)
	require.NoError(t, err)
	assert.Equal(t, 3, appended.Count)

	rows := readAll(t, report.Filepath)
	require.Len(t, rows, 4)
	assert.Equal(t, "Newsletter", rows[2][4])
	assert.Equal(t, "m3", rows[3][0])
}

func TestAppendCreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir, zap.NewNop())

	path := filepath.Join(dir, "fresh.csv")
	report, err := exporter.Append(context.Background(), sampleEmails(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count)

	rows := readAll(t, path)
	assert.Len(t, rows, 3)
}

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	exporter := NewCSVExporter(dir, zap.NewNop())

	report, err := exporter.Export(context.Background(), sampleEmails(), "summary")
	require.NoError(t, err)

	summary, err := exporter.Summarize(report.Filepath)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEmails)
	assert.Equal(t, 2, summary.UniqueSenders)
	assert.Equal(t, 1, summary.WithAttachments)
	assert.Equal(t, 1, summary.WithAmounts)
	assert.Equal(t, "2024-03-15 10:30:00", summary.EarliestDate)
	assert.NotEmpty(t, summary.LatestDate)
}

func TestSummarizeMissingFile(t *testing.T) {
	exporter := NewCSVExporter(t.TempDir(), zap.NewNop())
	_, err := exporter.Summarize(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
