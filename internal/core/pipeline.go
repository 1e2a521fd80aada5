package core

import (
	"go.uber.org/zap"
)

// AmountFilterPipeline applies the amount extractor across email records and
// filters them by a numeric range.
type AmountFilterPipeline struct {
	logger *zap.Logger
}

// NewAmountFilterPipeline creates a new pipeline.
func NewAmountFilterPipeline(logger *zap.Logger) *AmountFilterPipeline {
	return &AmountFilterPipeline{logger: logger}
}

// ExtractForEmail extracts amounts from one email's subject, body and
// snippet and applies the range filter. A nil record produces a
// failure-tagged result rather than an error so batch callers never abort.
func (p *AmountFilterPipeline) ExtractForEmail(email *EmailRecord, minAmount, maxAmount *float64) *AmountExtraction {
	if email == nil {
		return &AmountExtraction{Err: "missing email record"}
	}

	all := ExtractEmailAmounts(email.Subject, email.Body, email.Snippet)
	filtered := FilterAmountsByRange(all, minAmount, maxAmount)

	return &AmountExtraction{
		EmailID:         email.ID,
		Subject:         email.Subject,
		AllAmounts:      all,
		FilteredAmounts: filtered,
		HasAmounts:      len(all) > 0,
		MatchesFilter:   len(filtered) > 0,
		TotalFound:      len(all),
		TotalMatching:   len(filtered),
	}
}

// ExtractBatch runs ExtractForEmail over every record in sequence. Failures
// for individual records are captured in their result entries.
func (p *AmountFilterPipeline) ExtractBatch(emails []*EmailRecord, minAmount, maxAmount *float64) []*AmountExtraction {
	results := make([]*AmountExtraction, 0, len(emails))
	for _, email := range emails {
		results = append(results, p.ExtractForEmail(email, minAmount, maxAmount))
	}
	return results
}

// FilterByAmount keeps only the emails with at least one amount inside the
// range. Matching records get DetectedAmounts and AllAmounts set; everything
// else is dropped from the returned slice. The full per-record results are
// returned alongside, including failure entries.
func (p *AmountFilterPipeline) FilterByAmount(emails []*EmailRecord, minAmount, maxAmount *float64) ([]*EmailRecord, []*AmountExtraction) {
	var matching []*EmailRecord
	results := make([]*AmountExtraction, 0, len(emails))

	for _, email := range emails {
		result := p.ExtractForEmail(email, minAmount, maxAmount)
		results = append(results, result)

		if result.Err != "" {
			p.logger.Warn("Could not process email record",
				zap.String("email_id", result.EmailID),
				zap.String("error", result.Err))
			continue
		}

		if result.MatchesFilter {
			email.DetectedAmounts = result.FilteredAmounts
			email.AllAmounts = result.AllAmounts
			matching = append(matching, email)
		}
	}

	p.logger.Debug("Filtered emails by amount",
		zap.Int("total", len(emails)),
		zap.Int("matching", len(matching)))

	return matching, results
}
