package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// exportTimeFormat is used for the Date column and the generated filename
// timestamp.
const exportTimeFormat = "2006-01-02 15:04:05"

// columnOrder is the fixed CSV header.
var columnOrder = []string{
	"ID", "Date", "From", "To", "Subject", "Snippet",
	"Labels", "Has_Attachments", "Detected_Amounts",
}

// CSVExporter writes email records to CSV files under a configured output
// directory.
type CSVExporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(outputDir string, logger *zap.Logger) *CSVExporter {
	return &CSVExporter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Export writes one row per email record. An empty filename produces a
// timestamped one; a missing .csv extension is added.
func (e *CSVExporter) Export(ctx context.Context, emails []*core.EmailRecord, filename string) (*core.ExportReport, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if filename == "" {
		filename = fmt.Sprintf("filtered_emails_%s.csv", time.Now().Format("20060102_150405"))
	}
	if !strings.HasSuffix(filename, ".csv") {
		filename += ".csv"
	}

	path := filepath.Join(e.outputDir, filename)
	if err := e.writeFile(path, emails); err != nil {
		return nil, err
	}

	e.logger.Info("Exported emails to CSV",
		zap.String("filepath", path),
		zap.Int("count", len(emails)))

	return &core.ExportReport{
		Filepath: path,
		Filename: filename,
		Count:    len(emails),
	}, nil
}

// Append merges records into an existing CSV file, keeping the first row
// seen for each ID. A missing file is created instead.
func (e *CSVExporter) Append(ctx context.Context, emails []*core.EmailRecord, path string) (*core.ExportReport, error) {
	existing, err := readRows(path)
	if err != nil {
		if os.IsNotExist(err) {
			exporter := NewCSVExporter(filepath.Dir(path), e.logger)
			return exporter.Export(ctx, emails, filepath.Base(path))
		}
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		seen[row[0]] = struct{}{}
	}

	rows := existing
	for _, email := range emails {
		formatted := formatRow(email)
		if _, dup := seen[formatted[0]]; dup {
			continue
		}
		seen[formatted[0]] = struct{}{}
		rows = append(rows, formatted)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columnOrder); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}

	e.logger.Info("Appended emails to CSV",
		zap.String("filepath", path),
		zap.Int("total", len(rows)))

	return &core.ExportReport{
		Filepath: path,
		Filename: filepath.Base(path),
		Count:    len(rows),
	}, nil
}

// Summarize reads an exported file back and aggregates statistics.
func (e *CSVExporter) Summarize(path string) (*core.ExportSummary, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	summary := &core.ExportSummary{TotalEmails: len(rows)}
	senders := make(map[string]struct{})
	for _, row := range rows {
		date, from, attachments, amounts := row[1], row[2], row[7], row[8]
		if from != "" {
			senders[from] = struct{}{}
		}
		if attachments == "Yes" {
			summary.WithAttachments++
		}
		if amounts != "" {
			summary.WithAmounts++
		}
		if date != "" {
			if summary.EarliestDate == "" || date < summary.EarliestDate {
				summary.EarliestDate = date
			}
			if date > summary.LatestDate {
				summary.LatestDate = date
			}
		}
	}
	summary.UniqueSenders = len(senders)

	return summary, nil
}

// writeFile writes the header and one formatted row per record.
func (e *CSVExporter) writeFile(path string, emails []*core.EmailRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columnOrder); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, email := range emails {
		if err := w.Write(formatRow(email)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// formatRow renders one email in the fixed column order.
func formatRow(email *core.EmailRecord) []string {
	amounts := email.DetectedAmounts
	if len(amounts) == 0 {
		amounts = email.AllAmounts
	}
	amountTokens := make([]string, len(amounts))
	for i, amount := range amounts {
		amountTokens[i] = fmt.Sprintf("$%.2f", amount)
	}

	date := ""
	switch {
	case !email.Date.IsZero():
		date = email.Date.Format(exportTimeFormat)
	case email.InternalDate > 0:
		// internalDate is epoch milliseconds
		date = time.UnixMilli(email.InternalDate).Format(exportTimeFormat)
	}

	attachments := "No"
	if email.HasAttachments {
		attachments = "Yes"
	}

	return []string{
		email.ID,
		date,
		email.From,
		email.To,
		email.Subject,
		email.Snippet,
		strings.Join(email.Labels, ", "),
		attachments,
		strings.Join(amountTokens, ", "),
	}
}

// readRows reads a CSV file and returns its data rows (header stripped).
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}
