package gmailapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"time"

	"github.com/mikey/gmail-filter-agent/internal/core"
	"github.com/mikey/gmail-filter-agent/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
)

const gmailUser = "me"

// fallbackDateLayouts cover Date headers that net/mail rejects.
var fallbackDateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC1123Z,
	time.RFC1123,
}

// Client is the Gmail implementation of the mailbox search and fetch ports.
type Client struct {
	svc           *gmail.Service
	logger        *zap.Logger
	pageSize      int64
	textProcessor *utils.TextProcessor
}

// NewClient creates a new Gmail mailbox client.
func NewClient(svc *gmail.Service, logger *zap.Logger, pageSize int64, textProcessor *utils.TextProcessor) *Client {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &Client{
		svc:           svc,
		logger:        logger,
		pageSize:      pageSize,
		textProcessor: textProcessor,
	}
}

// Search runs a Gmail query and returns message summaries, following
// nextPageToken until maxResults is reached or the mailbox runs out. A
// message whose metadata fetch fails is skipped with a warning.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]core.EmailSummary, error) {
	var results []core.EmailSummary
	pageToken := ""

	for int64(len(results)) < maxResults {
		pageSize := maxResults - int64(len(results))
		if pageSize > c.pageSize {
			pageSize = c.pageSize
		}

		call := c.svc.Users.Messages.List(gmailUser).
			Q(query).
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gmail search failed: %w", err)
		}
		if len(resp.Messages) == 0 {
			break
		}

		for _, msg := range resp.Messages {
			meta, err := c.svc.Users.Messages.Get(gmailUser, msg.Id).
				Format("metadata").
				MetadataHeaders("From", "To", "Subject", "Date").
				Context(ctx).
				Do()
			if err != nil {
				c.logger.Warn("Could not fetch message metadata",
					zap.String("message_id", msg.Id),
					zap.Error(err))
				continue
			}

			results = append(results, core.EmailSummary{
				ID:           meta.Id,
				ThreadID:     meta.ThreadId,
				Snippet:      meta.Snippet,
				InternalDate: meta.InternalDate,
			})
			if int64(len(results)) >= maxResults {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return results, nil
}

// Fetch retrieves the full message and decodes it into an EmailRecord.
func (c *Client) Fetch(ctx context.Context, id string) (*core.EmailRecord, error) {
	msg, err := c.svc.Users.Messages.Get(gmailUser, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}

	record := &core.EmailRecord{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		Labels:       msg.LabelIds,
		InternalDate: msg.InternalDate,
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				record.From = header.Value
			case "To":
				record.To = header.Value
			case "Subject":
				record.Subject = header.Value
			case "Date":
				if parsed, err := parseDateHeader(header.Value); err == nil {
					record.Date = parsed
				} else {
					c.logger.Debug("Could not parse Date header",
						zap.String("message_id", msg.Id),
						zap.String("value", header.Value))
				}
			}
		}

		record.Body = c.textProcessor.SanitizeUTF8(extractBody(msg.Payload))
		record.HasAttachments = hasAttachments(msg.Payload)
	}

	return record, nil
}

// extractBody walks a multipart payload. The first text/plain part that
// decodes wins and stops the search; an HTML part is kept only as a fallback
// until a plain part turns up.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if len(payload.Parts) > 0 {
		htmlFallback := ""
		for _, part := range payload.Parts {
			switch {
			case part.MimeType == "text/plain":
				if text, ok := decodePartBody(part); ok {
					return text
				}
			case part.MimeType == "text/html" && htmlFallback == "":
				if text, ok := decodePartBody(part); ok {
					htmlFallback = text
				}
			case len(part.Parts) > 0:
				if nested := extractBody(part); nested != "" {
					return nested
				}
			}
		}
		return htmlFallback
	}

	if text, ok := decodePartBody(payload); ok {
		return text
	}
	return ""
}

// decodePartBody decodes a part's base64url body data, tolerating missing
// padding.
func decodePartBody(part *gmail.MessagePart) (string, bool) {
	if part.Body == nil || part.Body.Data == "" {
		return "", false
	}
	if data, err := base64.URLEncoding.DecodeString(part.Body.Data); err == nil {
		return string(data), true
	}
	if data, err := base64.RawURLEncoding.DecodeString(part.Body.Data); err == nil {
		return string(data), true
	}
	return "", false
}

// hasAttachments reports whether any part at any depth carries a filename.
func hasAttachments(payload *gmail.MessagePart) bool {
	if payload == nil {
		return false
	}
	for _, part := range payload.Parts {
		if part.Filename != "" {
			return true
		}
		if len(part.Parts) > 0 && hasAttachments(part) {
			return true
		}
	}
	return false
}

// parseDateHeader parses an RFC 5322 Date header, with fallbacks for the
// malformed variants real mail contains.
func parseDateHeader(value string) (time.Time, error) {
	if t, err := mail.ParseDate(value); err == nil {
		return t, nil
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date header: %q", value)
}
