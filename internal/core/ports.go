package core

import (
	"context"
)

// MailboxSearcher executes a provider query against the mailbox and returns
// lightweight summaries. Pagination is handled inside the adapter.
type MailboxSearcher interface {
	Search(ctx context.Context, query string, maxResults int64) ([]EmailSummary, error)
}

// MailboxFetcher retrieves the full email record for a message ID, including
// the decoded body and attachment flag.
type MailboxFetcher interface {
	Fetch(ctx context.Context, id string) (*EmailRecord, error)
}

// EmailCache caches fetched email records by message ID.
type EmailCache interface {
	// Get retrieves a cached record, or (nil, false) on miss or expiry.
	Get(ctx context.Context, emailID string) (*EmailRecord, bool)

	// Set stores a record.
	Set(ctx context.Context, record *EmailRecord) error

	// Delete removes a cached record.
	Delete(ctx context.Context, emailID string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}

// EmailExporter persists email records to a tabular artifact.
type EmailExporter interface {
	// Export writes one row per record. An empty filename means
	// "generate a timestamped one".
	Export(ctx context.Context, emails []*EmailRecord, filename string) (*ExportReport, error)

	// Append merges records into an existing file, deduplicating by ID.
	Append(ctx context.Context, emails []*EmailRecord, filepath string) (*ExportReport, error)

	// Summarize reads an exported file back and aggregates statistics.
	Summarize(filepath string) (*ExportSummary, error)
}

// ToolParam describes one parameter of a tool, in a provider-neutral shape
// each agent adapter converts to its own schema type.
type ToolParam struct {
	Name        string
	Type        string // "string", "number", "integer", "boolean", "array", "object"
	Description string
	Required    bool
	Items       *ToolParam  // element schema for arrays
	Properties  []ToolParam // nested fields for objects
}

// ToolSpec declares a tool the agent may invoke.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ToolCall is a structured tool invocation requested by the agent.
type ToolCall struct {
	// CallID is the provider-assigned invocation ID, when the provider
	// uses one (OpenAI does, Gemini does not).
	CallID string
	Name   string
	Args   map[string]any
}

// ToolResult carries a tool's output back to the agent.
type ToolResult struct {
	CallID   string
	Name     string
	Response map[string]any
}

// AgentReply is one turn of agent output: free text, tool calls, or both.
type AgentReply struct {
	Text      string
	ToolCalls []ToolCall
}

// AgentClient starts conversations with the hosted agent runtime.
type AgentClient interface {
	StartSession(ctx context.Context) (AgentSession, error)
}

// AgentSession is a single stateful conversation.
type AgentSession interface {
	// Send forwards user input and returns the agent's reply.
	Send(ctx context.Context, input string) (*AgentReply, error)

	// SendToolResults returns tool outputs to the agent and gets the
	// follow-up reply.
	SendToolResults(ctx context.Context, results []ToolResult) (*AgentReply, error)
}
