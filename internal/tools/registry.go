package tools

import (
	"github.com/mikey/gmail-filter-agent/internal/core"
)

// SystemInstruction steers the agent's tool selection and workflow order:
// search, then optional detail fetch and amount filtering, then export.
const SystemInstruction = `You are an intelligent Gmail filter agent that helps users find, analyze, and export emails from their Gmail account.

Your capabilities:
1. gmail_search: find emails by keywords, sender, date range (absolute dates like "2024-01-01" or relative like "last 30 days"), attachments, or labels.
2. email_fetcher: fetch full details (headers, body, labels, attachment info) of a specific email by ID.
3. amount_extractor: find currency amounts ($, EUR, GBP, JPY and more) in fetched emails and filter them by a min/max range.
4. csv_export: export results to a CSV file with all email metadata and detected amounts.

Workflow for user requests:
1. Use gmail_search with appropriate parameters to find matching emails.
2. If the user mentioned money, payments or amounts, call email_fetcher for the found emails and then amount_extractor with the requested range.
3. Always export results to CSV with csv_export unless the user explicitly says not to.
4. Summarize for the user: how many emails matched, the date range, and the CSV file location.

Be helpful and concise, handle errors gracefully, and provide actionable summaries with specific numbers.`

// Specs returns the declarations for the four agent tools.
func Specs() []core.ToolSpec {
	return []core.ToolSpec{
		{
			Name: "gmail_search",
			Description: "Search Gmail using natural language query and filters. " +
				"Converts the filters to Gmail query syntax and returns matching emails. " +
				"Returns basic email information (ID, snippet, date) for matching messages.",
			Params: []core.ToolParam{
				{Name: "user_query", Type: "string", Description: "Keywords to search for in emails", Required: true},
				{Name: "sender", Type: "string", Description: "Filter by sender email address"},
				{Name: "after_date", Type: "string", Description: "Only emails after this date; YYYY-MM-DD or relative like '30 days ago', 'last week'"},
				{Name: "before_date", Type: "string", Description: "Only emails before this date; YYYY-MM-DD or relative"},
				{Name: "has_attachment", Type: "boolean", Description: "Only emails with attachments"},
				{Name: "label", Type: "string", Description: "Filter by Gmail label (inbox, sent, important, ...)"},
				{Name: "max_results", Type: "integer", Description: "Maximum number of results to return"},
			},
		},
		{
			Name: "email_fetcher",
			Description: "Fetch complete details of a specific email by ID, including headers, " +
				"body text, labels, and attachment information. Use after gmail_search.",
			Params: []core.ToolParam{
				{Name: "email_id", Type: "string", Description: "Gmail message ID from gmail_search results", Required: true},
			},
		},
		{
			Name: "amount_extractor",
			Description: "Extract currency amounts from emails fetched this session and filter " +
				"them by a min/max range. Supports multiple currencies and formats. " +
				"Returns all detected amounts and which emails match the range.",
			Params: []core.ToolParam{
				{Name: "email_ids", Type: "array", Description: "Email IDs to process; defaults to every email found this session",
					Items: &core.ToolParam{Type: "string"}},
				{Name: "min_amount", Type: "number", Description: "Minimum amount to include (inclusive)"},
				{Name: "max_amount", Type: "number", Description: "Maximum amount to include (inclusive)"},
			},
		},
		{
			Name: "csv_export",
			Description: "Export emails to a CSV file with columns ID, Date, From, To, Subject, " +
				"Snippet, Labels, Has_Attachments, Detected_Amounts. Defaults to the result of " +
				"the last amount filter; auto-generates a timestamped filename if none is given.",
			Params: []core.ToolParam{
				{Name: "email_ids", Type: "array", Description: "Email IDs to export; defaults to the last filtered set",
					Items: &core.ToolParam{Type: "string"}},
				{Name: "filename", Type: "string", Description: "Output filename (optional)"},
			},
		},
	}
}
