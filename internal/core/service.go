package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EmailFilterService is the core orchestration service: it translates filter
// intents, runs mailbox searches, fetches full records through the cache,
// filters by amount, and exports results.
type EmailFilterService struct {
	searcher     MailboxSearcher
	fetcher      MailboxFetcher
	cache        EmailCache
	exporter     EmailExporter
	translator   *QueryTranslator
	pipeline     *AmountFilterPipeline
	logger       *zap.Logger
	cacheEnabled bool
}

// NewEmailFilterService creates a new email filter service.
func NewEmailFilterService(
	searcher MailboxSearcher,
	fetcher MailboxFetcher,
	cache EmailCache,
	exporter EmailExporter,
	translator *QueryTranslator,
	pipeline *AmountFilterPipeline,
	logger *zap.Logger,
	cacheEnabled bool,
) *EmailFilterService {
	return &EmailFilterService{
		searcher:     searcher,
		fetcher:      fetcher,
		cache:        cache,
		exporter:     exporter,
		translator:   translator,
		pipeline:     pipeline,
		logger:       logger,
		cacheEnabled: cacheEnabled,
	}
}

// Search translates the intent into a provider query and runs it. The
// translated query is returned alongside the summaries so callers can echo
// it back to the user.
func (s *EmailFilterService) Search(ctx context.Context, intent *FilterIntent, maxResults int64) (string, []EmailSummary, error) {
	query := s.translator.Translate(intent, time.Now())
	s.logger.Info("Searching mailbox",
		zap.String("query", query),
		zap.Int64("max_results", maxResults))

	summaries, err := s.searcher.Search(ctx, query, maxResults)
	if err != nil {
		return query, nil, err
	}

	s.logger.Info("Search complete",
		zap.String("query", query),
		zap.Int("count", len(summaries)))
	return query, summaries, nil
}

// FetchEmail retrieves a full email record, consulting the cache first.
func (s *EmailFilterService) FetchEmail(ctx context.Context, id string) (*EmailRecord, error) {
	if s.cacheEnabled {
		if record, ok := s.cache.Get(ctx, id); ok {
			s.logger.Debug("Cache hit for email", zap.String("email_id", id))
			return record, nil
		}
	}

	record, err := s.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, record); err != nil {
			s.logger.Error("Failed to cache email record",
				zap.String("email_id", id),
				zap.Error(err))
		}
	}

	return record, nil
}

// FetchEmails fetches records for every ID in sequence. A failed fetch is
// logged and reported as a failure-tagged extraction result; the rest of the
// batch continues.
func (s *EmailFilterService) FetchEmails(ctx context.Context, ids []string) ([]*EmailRecord, []*AmountExtraction) {
	var records []*EmailRecord
	var failures []*AmountExtraction

	for _, id := range ids {
		record, err := s.FetchEmail(ctx, id)
		if err != nil {
			s.logger.Warn("Failed to fetch email, continuing batch",
				zap.String("email_id", id),
				zap.Error(err))
			failures = append(failures, &AmountExtraction{
				EmailID: id,
				Err:     err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	return records, failures
}

// FilterByAmount runs the amount pipeline over the given records.
func (s *EmailFilterService) FilterByAmount(emails []*EmailRecord, minAmount, maxAmount *float64) ([]*EmailRecord, []*AmountExtraction) {
	return s.pipeline.FilterByAmount(emails, minAmount, maxAmount)
}

// ExtractForEmail runs the extractor over a single record.
func (s *EmailFilterService) ExtractForEmail(email *EmailRecord, minAmount, maxAmount *float64) *AmountExtraction {
	return s.pipeline.ExtractForEmail(email, minAmount, maxAmount)
}

// Export writes records to a CSV file via the configured exporter.
func (s *EmailFilterService) Export(ctx context.Context, emails []*EmailRecord, filename string) (*ExportReport, error) {
	report, err := s.exporter.Export(ctx, emails, filename)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Exported emails",
		zap.String("filepath", report.Filepath),
		zap.Int("count", report.Count))
	return report, nil
}

// Summarize aggregates statistics over a previously exported file.
func (s *EmailFilterService) Summarize(filepath string) (*ExportSummary, error) {
	return s.exporter.Summarize(filepath)
}
