package core

import (
	"time"
)

// FilterIntent is the structured representation of a user's search request.
// A nil HasAttachment means "no preference"; false emits no clause either,
// since Gmail has no negative attachment operator.
type FilterIntent struct {
	Keywords      string
	Sender        string
	AfterDate     string
	BeforeDate    string
	HasAttachment *bool
	Label         string
}

// EmailSummary is the lightweight record returned by a mailbox search.
type EmailSummary struct {
	ID           string
	ThreadID     string
	Snippet      string
	InternalDate int64
}

// EmailRecord is a fully fetched email message.
type EmailRecord struct {
	ID             string
	ThreadID       string
	From           string
	To             string
	Subject        string
	Snippet        string
	Body           string
	Labels         []string
	HasAttachments bool
	// Date is the parsed Date header; zero when the header was absent or
	// unparseable. InternalDate (epoch milliseconds) is the fallback.
	Date         time.Time
	InternalDate int64

	// Set by the amount filter pipeline on matching emails.
	DetectedAmounts []float64
	AllAmounts      []float64
}

// AmountExtraction is the result of running the amount extractor over a
// single email. AllAmounts is sorted descending; FilteredAmounts is the
// subset within the requested range.
type AmountExtraction struct {
	EmailID         string
	Subject         string
	AllAmounts      []float64
	FilteredAmounts []float64
	HasAmounts      bool
	MatchesFilter   bool
	TotalFound      int
	TotalMatching   int
	// Err is set when the record could not be processed; the batch
	// continues regardless.
	Err string
}

// CacheEntry is a cached fetched email.
type CacheEntry struct {
	EmailID   string
	Record    *EmailRecord
	FetchedAt time.Time
	ExpiresAt time.Time
}

// ExportReport describes a completed CSV export.
type ExportReport struct {
	Filepath string
	Filename string
	Count    int
}

// ExportSummary holds aggregate statistics read back from an exported file.
type ExportSummary struct {
	TotalEmails     int
	UniqueSenders   int
	WithAttachments int
	WithAmounts     int
	EarliestDate    string
	LatestDate      string
}
