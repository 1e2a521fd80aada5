package gmailapi

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
		{
			name: "single part plain text",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encode("hello")},
			},
			want: "hello",
		},
		{
			name: "plain wins over html",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>hi</p>")}},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("hi")}},
				},
			},
			want: "hi",
		},
		{
			name: "html fallback when no plain part decodes",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>only html</p>")}},
				},
			},
			want: "<p>only html</p>",
		},
		{
			name: "nested multipart",
			payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("nested")}},
						},
					},
					{MimeType: "application/pdf", Filename: "doc.pdf"},
				},
			},
			want: "nested",
		},
		{
			name: "unpadded base64url",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("raw"))},
			},
			want: "raw",
		},
		{
			name: "empty body data",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBody(tt.payload))
		})
	}
}

func TestHasAttachments(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    bool
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    false,
		},
		{
			name: "no parts",
			payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: encode("hello")},
			},
			want: false,
		},
		{
			name: "top level attachment",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain"},
					{MimeType: "application/pdf", Filename: "invoice.pdf"},
				},
			},
			want: true,
		},
		{
			name: "nested attachment",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					{
						MimeType: "multipart/mixed",
						Parts: []*gmail.MessagePart{
							{MimeType: "image/png", Filename: "chart.png"},
						},
					},
				},
			},
			want: true,
		},
		{
			name: "parts without filenames",
			payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain"},
					{MimeType: "text/html"},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasAttachments(tt.payload))
		})
	}
}

func TestParseDateHeader(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "rfc5322",
			value: "Fri, 15 Mar 2024 10:30:00 +0000",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "zone name in parens",
			value: "Fri, 15 Mar 2024 10:30:00 +0000 (UTC)",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "missing weekday",
			value: "15 Mar 2024 10:30:00 +0000",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateHeader(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}

	t.Run("unrecognized value", func(t *testing.T) {
		_, err := parseDateHeader("sometime last Tuesday")
		require.Error(t, err)
	})
}
