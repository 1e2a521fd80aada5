package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSearcher struct {
	summaries []core.EmailSummary
	err       error
}

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int64) ([]core.EmailSummary, error) {
	return s.summaries, s.err
}

type stubFetcher struct {
	records map[string]*core.EmailRecord
	calls   int
}

func (s *stubFetcher) Fetch(ctx context.Context, id string) (*core.EmailRecord, error) {
	s.calls++
	record, ok := s.records[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return record, nil
}

type stubExporter struct {
	gotEmails []*core.EmailRecord
}

func (s *stubExporter) Export(ctx context.Context, emails []*core.EmailRecord, filename string) (*core.ExportReport, error) {
	s.gotEmails = emails
	return &core.ExportReport{Filepath: "/tmp/out.csv", Filename: "out.csv", Count: len(emails)}, nil
}

func (s *stubExporter) Append(ctx context.Context, emails []*core.EmailRecord, filepath string) (*core.ExportReport, error) {
	return &core.ExportReport{Count: len(emails)}, nil
}

func (s *stubExporter) Summarize(filepath string) (*core.ExportSummary, error) {
	return &core.ExportSummary{}, nil
}

func newTestExecutor(searcher core.MailboxSearcher, fetcher core.MailboxFetcher, exporter core.EmailExporter) *Executor {
	logger := zap.NewNop()
	svc := core.NewEmailFilterService(
		searcher,
		fetcher,
		nil,
		exporter,
		core.NewQueryTranslator(logger),
		core.NewAmountFilterPipeline(logger),
		logger,
		false,
	)
	return NewExecutor(svc, logger, utils.NewTextProcessor(logger), 50, 4096)
}

func TestExecuteUnknownTool(t *testing.T) {
	exec := newTestExecutor(&stubSearcher{}, &stubFetcher{}, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{CallID: "c1", Name: "teleport"})
	assert.Equal(t, "c1", result.CallID)
	assert.Equal(t, false, result.Response["success"])
	assert.Contains(t, result.Response["error"], "unknown tool")
}

func TestExecuteSearch(t *testing.T) {
	searcher := &stubSearcher{summaries: []core.EmailSummary{
		{ID: "m1", Snippet: "invoice attached"},
		{ID: "m2", Snippet: "receipt"},
	}}
	exec := newTestExecutor(searcher, &stubFetcher{}, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{
		Name: "gmail_search",
		Args: map[string]any{"user_query": "invoice", "sender": "billing@example.com"},
	})

	assert.Equal(t, true, result.Response["success"])
	assert.Equal(t, "from:billing@example.com invoice", result.Response["query"])
	assert.Equal(t, 2, result.Response["count"])
}

func TestExecuteSearchFailure(t *testing.T) {
	exec := newTestExecutor(&stubSearcher{err: errors.New("quota exceeded")}, &stubFetcher{}, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{
		Name: "gmail_search",
		Args: map[string]any{"user_query": "invoice"},
	})

	assert.Equal(t, false, result.Response["success"])
	assert.Contains(t, result.Response["error"], "quota exceeded")
}

func TestExecuteFetch(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]*core.EmailRecord{
		"m1": {ID: "m1", Subject: "Invoice", Body: "Total: $120.00"},
	}}
	exec := newTestExecutor(&stubSearcher{}, fetcher, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{
		Name: "email_fetcher",
		Args: map[string]any{"email_id": "m1"},
	})

	assert.Equal(t, true, result.Response["success"])
	assert.Equal(t, "Invoice", result.Response["subject"])
	assert.Equal(t, "Total: $120.00", result.Response["body"])
}

func TestExecuteFetchRequiresID(t *testing.T) {
	exec := newTestExecutor(&stubSearcher{}, &stubFetcher{}, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{Name: "email_fetcher"})
	assert.Equal(t, false, result.Response["success"])
}

func TestExecuteAmountExtractorFetchesMissing(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]*core.EmailRecord{
		"big":   {ID: "big", Subject: "Invoice $250.00"},
		"small": {ID: "small", Subject: "Coffee $4.50"},
	}}
	exec := newTestExecutor(&stubSearcher{}, fetcher, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{
		Name: "amount_extractor",
		Args: map[string]any{
			"email_ids":  []any{"big", "small"},
			"min_amount": float64(100),
		},
	})

	assert.Equal(t, true, result.Response["success"])
	assert.Equal(t, 1, result.Response["total_matching"])
	assert.Equal(t, []string{"big"}, result.Response["matching_ids"])
	assert.Equal(t, 2, fetcher.calls)
}

func TestExecuteAmountExtractorDefaultsToSearchResults(t *testing.T) {
	searcher := &stubSearcher{summaries: []core.EmailSummary{{ID: "m1"}}}
	fetcher := &stubFetcher{records: map[string]*core.EmailRecord{
		"m1": {ID: "m1", Subject: "Payment of $75.00"},
	}}
	exec := newTestExecutor(searcher, fetcher, &stubExporter{})

	exec.Execute(context.Background(), core.ToolCall{
		Name: "gmail_search",
		Args: map[string]any{"user_query": "payment"},
	})
	result := exec.Execute(context.Background(), core.ToolCall{Name: "amount_extractor"})

	assert.Equal(t, true, result.Response["success"])
	assert.Equal(t, 1, result.Response["total_matching"])
}

func TestExecuteExportDefaultsToLastFiltered(t *testing.T) {
	fetcher := &stubFetcher{records: map[string]*core.EmailRecord{
		"big":   {ID: "big", Subject: "Invoice $250.00"},
		"small": {ID: "small", Subject: "Coffee $4.50"},
	}}
	exporter := &stubExporter{}
	exec := newTestExecutor(&stubSearcher{}, fetcher, exporter)

	exec.Execute(context.Background(), core.ToolCall{
		Name: "amount_extractor",
		Args: map[string]any{
			"email_ids":  []any{"big", "small"},
			"min_amount": float64(100),
		},
	})
	result := exec.Execute(context.Background(), core.ToolCall{Name: "csv_export"})

	assert.Equal(t, true, result.Response["success"])
	require.Len(t, exporter.gotEmails, 1)
	assert.Equal(t, "big", exporter.gotEmails[0].ID)
}

func TestExecuteExportWithoutEmails(t *testing.T) {
	exec := newTestExecutor(&stubSearcher{}, &stubFetcher{}, &stubExporter{})

	result := exec.Execute(context.Background(), core.ToolCall{Name: "csv_export"})
	assert.Equal(t, false, result.Response["success"])
}
