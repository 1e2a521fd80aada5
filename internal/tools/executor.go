package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/utils"
	"go.uber.org/zap"
)

// Executor maps agent tool calls onto the email filter service. It keeps the
// session working set: summaries from the last search, fully fetched
// records, and the result of the last amount filter, so later tools can
// default to earlier tools' output.
type Executor struct {
	svc           *core.EmailFilterService
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	maxResults    int64
	maxBodySize   int

	mu           sync.Mutex
	lastSearch   []core.EmailSummary
	fetched      map[string]*core.EmailRecord
	fetchedOrder []string
	lastFiltered []*core.EmailRecord
}

// NewExecutor creates a new tool executor.
func NewExecutor(
	svc *core.EmailFilterService,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	maxResults int64,
	maxBodySize int,
) *Executor {
	return &Executor{
		svc:           svc,
		logger:        logger,
		textProcessor: textProcessor,
		maxResults:    maxResults,
		maxBodySize:   maxBodySize,
		fetched:       make(map[string]*core.EmailRecord),
	}
}

// Execute runs one tool call. Failures are reported inside the result
// payload so the agent can react; Execute itself never fails.
func (e *Executor) Execute(ctx context.Context, call core.ToolCall) core.ToolResult {
	e.logger.Info("Executing tool call", zap.String("tool", call.Name))

	var response map[string]any
	switch call.Name {
	case "gmail_search":
		response = e.search(ctx, call.Args)
	case "email_fetcher":
		response = e.fetch(ctx, call.Args)
	case "amount_extractor":
		response = e.extractAmounts(ctx, call.Args)
	case "csv_export":
		response = e.export(ctx, call.Args)
	default:
		response = map[string]any{
			"success": false,
			"error":   fmt.Sprintf("unknown tool: %s", call.Name),
		}
	}

	return core.ToolResult{
		CallID:   call.CallID,
		Name:     call.Name,
		Response: response,
	}
}

func (e *Executor) search(ctx context.Context, args map[string]any) map[string]any {
	intent := &core.FilterIntent{
		Keywords:   stringArg(args, "user_query"),
		Sender:     stringArg(args, "sender"),
		AfterDate:  stringArg(args, "after_date"),
		BeforeDate: stringArg(args, "before_date"),
		Label:      stringArg(args, "label"),
	}
	if v, ok := boolArg(args, "has_attachment"); ok {
		intent.HasAttachment = &v
	}

	maxResults := intArg(args, "max_results", e.maxResults)
	query, summaries, err := e.svc.Search(ctx, intent, maxResults)
	if err != nil {
		return map[string]any{
			"success": false,
			"error":   err.Error(),
			"query":   query,
			"count":   0,
		}
	}

	e.mu.Lock()
	e.lastSearch = summaries
	e.mu.Unlock()

	results := make([]map[string]any, len(summaries))
	for i, s := range summaries {
		results[i] = map[string]any{
			"id":            s.ID,
			"thread_id":     s.ThreadID,
			"snippet":       s.Snippet,
			"internal_date": s.InternalDate,
		}
	}

	return map[string]any{
		"success": true,
		"query":   query,
		"count":   len(results),
		"results": results,
	}
}

func (e *Executor) fetch(ctx context.Context, args map[string]any) map[string]any {
	id := stringArg(args, "email_id")
	if id == "" {
		return map[string]any{"success": false, "error": "email_id is required"}
	}

	record, err := e.svc.FetchEmail(ctx, id)
	if err != nil {
		return map[string]any{"success": false, "error": err.Error(), "id": id}
	}

	e.remember(record)

	result := e.recordMap(record)
	result["success"] = true
	return result
}

func (e *Executor) extractAmounts(ctx context.Context, args map[string]any) map[string]any {
	minAmount := floatArg(args, "min_amount")
	maxAmount := floatArg(args, "max_amount")

	records, failures := e.resolveRecords(ctx, stringSliceArg(args, "email_ids"))
	matching, results := e.svc.FilterByAmount(records, minAmount, maxAmount)
	results = append(results, failures...)

	e.mu.Lock()
	e.lastFiltered = matching
	e.mu.Unlock()

	resultMaps := make([]map[string]any, len(results))
	matchingIDs := make([]string, 0, len(matching))
	for i, r := range results {
		resultMaps[i] = map[string]any{
			"email_id":         r.EmailID,
			"subject":          r.Subject,
			"all_amounts":      r.AllAmounts,
			"filtered_amounts": r.FilteredAmounts,
			"has_amounts":      r.HasAmounts,
			"matches_filter":   r.MatchesFilter,
			"total_found":      r.TotalFound,
			"total_matching":   r.TotalMatching,
		}
		if r.Err != "" {
			resultMaps[i]["error"] = r.Err
		}
	}
	for _, m := range matching {
		matchingIDs = append(matchingIDs, m.ID)
	}

	return map[string]any{
		"success":        true,
		"results":        resultMaps,
		"matching_ids":   matchingIDs,
		"total_matching": len(matching),
	}
}

func (e *Executor) export(ctx context.Context, args map[string]any) map[string]any {
	var emails []*core.EmailRecord
	if ids := stringSliceArg(args, "email_ids"); len(ids) > 0 {
		emails, _ = e.resolveRecords(ctx, ids)
	} else {
		e.mu.Lock()
		if len(e.lastFiltered) > 0 {
			emails = e.lastFiltered
		} else {
			for _, id := range e.fetchedOrder {
				emails = append(emails, e.fetched[id])
			}
		}
		e.mu.Unlock()
	}

	if len(emails) == 0 {
		return map[string]any{"success": false, "error": "no emails to export"}
	}

	report, err := e.svc.Export(ctx, emails, stringArg(args, "filename"))
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}

	return map[string]any{
		"success":  true,
		"filepath": report.Filepath,
		"filename": report.Filename,
		"count":    report.Count,
		"message":  fmt.Sprintf("Successfully exported %d emails to %s", report.Count, report.Filepath),
	}
}

// resolveRecords returns full records for the given IDs, fetching any that
// are not in the working set yet. Without IDs it falls back to the fetched
// working set, then to the last search results.
func (e *Executor) resolveRecords(ctx context.Context, ids []string) ([]*core.EmailRecord, []*core.AmountExtraction) {
	if len(ids) == 0 {
		e.mu.Lock()
		if len(e.fetchedOrder) > 0 {
			ids = append(ids, e.fetchedOrder...)
		} else {
			for _, s := range e.lastSearch {
				ids = append(ids, s.ID)
			}
		}
		e.mu.Unlock()
	}

	var missing []string
	var records []*core.EmailRecord
	e.mu.Lock()
	for _, id := range ids {
		if record, ok := e.fetched[id]; ok {
			records = append(records, record)
		} else {
			missing = append(missing, id)
		}
	}
	e.mu.Unlock()

	if len(missing) == 0 {
		return records, nil
	}

	fetchedNow, failures := e.svc.FetchEmails(ctx, missing)
	for _, record := range fetchedNow {
		e.remember(record)
		records = append(records, record)
	}
	return records, failures
}

func (e *Executor) remember(record *core.EmailRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.fetched[record.ID]; !ok {
		e.fetchedOrder = append(e.fetchedOrder, record.ID)
	}
	e.fetched[record.ID] = record
}

// recordMap renders a record for the agent, bounding the body so tool
// results stay within the model's context budget.
func (e *Executor) recordMap(record *core.EmailRecord) map[string]any {
	date := ""
	if !record.Date.IsZero() {
		date = record.Date.Format("2006-01-02 15:04:05")
	}
	return map[string]any{
		"id":              record.ID,
		"thread_id":       record.ThreadID,
		"from":            record.From,
		"to":              record.To,
		"subject":         record.Subject,
		"date":            date,
		"snippet":         record.Snippet,
		"body":            e.textProcessor.ProcessText(record.Body, e.maxBodySize),
		"labels":          record.Labels,
		"has_attachments": record.HasAttachments,
		"internal_date":   record.InternalDate,
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func boolArg(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

func floatArg(args map[string]any, key string) *float64 {
	switch v := args[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func intArg(args map[string]any, key string, fallback int64) int64 {
	switch v := args[key].(type) {
	case float64:
		if v > 0 {
			return int64(v)
		}
	case int:
		if v > 0 {
			return int64(v)
		}
	case int64:
		if v > 0 {
			return v
		}
	}
	return fallback
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
