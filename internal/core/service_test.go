package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	gotQuery  string
	summaries []EmailSummary
	err       error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error) {
	f.gotQuery = query
	return f.summaries, f.err
}

type fakeFetcher struct {
	records map[string]*EmailRecord
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, id string) (*EmailRecord, error) {
	f.calls++
	record, ok := f.records[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return record, nil
}

type fakeCache struct {
	entries map[string]*EmailRecord
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*EmailRecord)}
}

func (f *fakeCache) Get(ctx context.Context, emailID string) (*EmailRecord, bool) {
	record, ok := f.entries[emailID]
	return record, ok
}

func (f *fakeCache) Set(ctx context.Context, record *EmailRecord) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[record.ID] = record
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, emailID string) error {
	delete(f.entries, emailID)
	return nil
}

func (f *fakeCache) Cleanup(ctx context.Context) error { return nil }

type fakeExporter struct {
	gotEmails   []*EmailRecord
	gotFilename string
}

func (f *fakeExporter) Export(ctx context.Context, emails []*EmailRecord, filename string) (*ExportReport, error) {
	f.gotEmails = emails
	f.gotFilename = filename
	return &ExportReport{Filepath: "/tmp/out.csv", Filename: "out.csv", Count: len(emails)}, nil
}

func (f *fakeExporter) Append(ctx context.Context, emails []*EmailRecord, filepath string) (*ExportReport, error) {
	return &ExportReport{Filepath: filepath, Count: len(emails)}, nil
}

func (f *fakeExporter) Summarize(filepath string) (*ExportSummary, error) {
	return &ExportSummary{TotalEmails: len(f.gotEmails)}, nil
}

func newTestService(searcher *fakeSearcher, fetcher *fakeFetcher, cache EmailCache, exporter EmailExporter, cacheEnabled bool) *EmailFilterService {
	logger := zap.NewNop()
	return NewEmailFilterService(
		searcher,
		fetcher,
		cache,
		exporter,
		NewQueryTranslator(logger),
		NewAmountFilterPipeline(logger),
		logger,
		cacheEnabled,
	)
}

func TestServiceSearch(t *testing.T) {
	searcher := &fakeSearcher{summaries: []EmailSummary{{ID: "m1"}, {ID: "m2"}}}
	svc := newTestService(searcher, &fakeFetcher{}, newFakeCache(), &fakeExporter{}, false)

	query, summaries, err := svc.Search(context.Background(), &FilterIntent{Sender: "a@b.com"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "from:a@b.com", query)
	assert.Equal(t, "from:a@b.com", searcher.gotQuery)
	assert.Len(t, summaries, 2)
}

func TestServiceSearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	svc := newTestService(searcher, &fakeFetcher{}, newFakeCache(), &fakeExporter{}, false)

	query, _, err := svc.Search(context.Background(), &FilterIntent{Keywords: "invoice"}, 10)
	require.Error(t, err)
	assert.Equal(t, "invoice", query)
}

func TestFetchEmailUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*EmailRecord{
		"m1": {ID: "m1", Subject: "hello"},
	}}
	cache := newFakeCache()
	svc := newTestService(&fakeSearcher{}, fetcher, cache, &fakeExporter{}, true)

	first, err := svc.FetchEmail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Subject)
	assert.Equal(t, 1, fetcher.calls)

	// Second fetch is served from the cache.
	second, err := svc.FetchEmail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.calls)
}

func TestFetchEmailCacheDisabled(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*EmailRecord{
		"m1": {ID: "m1"},
	}}
	svc := newTestService(&fakeSearcher{}, fetcher, nil, &fakeExporter{}, false)

	_, err := svc.FetchEmail(context.Background(), "m1")
	require.NoError(t, err)
	_, err = svc.FetchEmail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestFetchEmailCacheSetFailureIsNotFatal(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*EmailRecord{
		"m1": {ID: "m1"},
	}}
	cache := newFakeCache()
	cache.setErr = errors.New("disk full")
	svc := newTestService(&fakeSearcher{}, fetcher, cache, &fakeExporter{}, true)

	record, err := svc.FetchEmail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", record.ID)
}

func TestFetchEmailsContinuesPastFailures(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*EmailRecord{
		"good": {ID: "good"},
	}}
	svc := newTestService(&fakeSearcher{}, fetcher, newFakeCache(), &fakeExporter{}, false)

	records, failures := svc.FetchEmails(context.Background(), []string{"good", "missing"})
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].ID)
	require.Len(t, failures, 1)
	assert.Equal(t, "missing", failures[0].EmailID)
	assert.NotEmpty(t, failures[0].Err)
}

func TestServiceExport(t *testing.T) {
	exporter := &fakeExporter{}
	svc := newTestService(&fakeSearcher{}, &fakeFetcher{}, newFakeCache(), exporter, false)

	emails := []*EmailRecord{{ID: "m1"}}
	report, err := svc.Export(context.Background(), emails, "out")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "out", exporter.gotFilename)
}
