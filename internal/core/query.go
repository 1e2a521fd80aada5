package core

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// queryDateFormat is the date layout Gmail's after:/before: operators expect.
const queryDateFormat = "2006/01/02"

// WildcardQuery matches every message; returned when an intent produces no
// clauses at all.
const WildcardQuery = "*"

// QueryTranslator converts a FilterIntent into Gmail search syntax.
type QueryTranslator struct {
	logger *zap.Logger
}

// NewQueryTranslator creates a new query translator.
func NewQueryTranslator(logger *zap.Logger) *QueryTranslator {
	return &QueryTranslator{logger: logger}
}

// Translate builds the provider query string for an intent. Clauses are
// appended in a fixed order (sender, after, before, attachment, label,
// keywords) so output is deterministic for a given intent and reference
// time. Date expressions that fail to resolve are warned about and omitted
// rather than aborting the translation.
func (t *QueryTranslator) Translate(intent *FilterIntent, now time.Time) string {
	var parts []string

	if intent.Sender != "" {
		parts = append(parts, "from:"+intent.Sender)
	}

	if intent.AfterDate != "" {
		if d, err := ResolveDate(intent.AfterDate, now); err != nil {
			t.logger.Warn("Could not parse after date, omitting clause",
				zap.String("expression", intent.AfterDate),
				zap.Error(err))
		} else {
			parts = append(parts, "after:"+d.Format(queryDateFormat))
		}
	}

	if intent.BeforeDate != "" {
		if d, err := ResolveDate(intent.BeforeDate, now); err != nil {
			t.logger.Warn("Could not parse before date, omitting clause",
				zap.String("expression", intent.BeforeDate),
				zap.Error(err))
		} else {
			parts = append(parts, "before:"+d.Format(queryDateFormat))
		}
	}

	// Gmail has no "no attachment" operator, so false emits nothing.
	if intent.HasAttachment != nil && *intent.HasAttachment {
		parts = append(parts, "has:attachment")
	}

	if intent.Label != "" {
		parts = append(parts, "label:"+intent.Label)
	}

	if kw := strings.TrimSpace(intent.Keywords); kw != "" {
		parts = append(parts, kw)
	}

	query := strings.Join(parts, " ")
	if query == "" {
		return WildcardQuery
	}
	return query
}
