package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnparseableDate is returned when a date expression matches no
// recognized relative or absolute form.
var ErrUnparseableDate = errors.New("unparseable date expression")

var firstInteger = regexp.MustCompile(`\d+`)

// absoluteLayouts are tried in order after relative forms fail. Month names
// are matched case-insensitively via title folding in ResolveDate.
var absoluteLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006",
}

var titleCaser = cases.Title(language.English)

// ResolveDate parses a date expression relative to an explicit reference
// time. Relative forms ("2 weeks ago", "last month") are resolved against
// now; months are a fixed 30-day approximation. Absolute forms accept ISO
// style and common human-readable layouts. The reference time is an explicit
// argument so resolution stays deterministic and testable.
func ResolveDate(expr string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, expr)
	}

	if strings.Contains(s, "ago") || strings.Contains(s, "last") {
		if t, ok := resolveRelative(s, now); ok {
			return t, nil
		}
		// A relative-looking expression without a usable unit/count falls
		// through to absolute parsing.
	}

	switch s {
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "today":
		return now, nil
	}

	folded := titleCaser.String(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, folded); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, expr)
}

// resolveRelative handles "N days ago" / "last week" style expressions.
// The count defaults to 1 for week and month forms; a day form without an
// explicit count is not treated as relative.
func resolveRelative(s string, now time.Time) (time.Time, bool) {
	n := 0
	hasCount := false
	if m := firstInteger.FindString(s); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			n = v
			hasCount = true
		}
	}

	switch {
	case strings.Contains(s, "day"):
		if !hasCount {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, -n), true
	case strings.Contains(s, "week"):
		if !hasCount {
			n = 1
		}
		return now.AddDate(0, 0, -7*n), true
	case strings.Contains(s, "month"):
		if !hasCount {
			n = 1
		}
		// Fixed 30-day months, not calendar-month aware.
		return now.AddDate(0, 0, -30*n), true
	}

	return time.Time{}, false
}
