package message

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// fallbackLayouts are tried when the Date header is not RFC 5322 conformant.
var fallbackLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"2 Jan 06 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05",
	"Mon Jan 2 15:04:05 2006",
	"Mon Jan 2 15:04:05 MST 2006",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// trailingComment matches a parenthesized zone comment such as " (CEST)".
var trailingComment = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseDate parses a Date header permissively. ok is false when no known
// layout matches.
func ParseDate(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := mail.ParseDate(s); err == nil {
		return t, true
	}

	candidates := []string{s}
	if stripped := trailingComment.ReplaceAllString(s, ""); stripped != s {
		candidates = append(candidates, stripped)
	}
	// Collapse runs of whitespace left by folded headers.
	candidates = append(candidates, strings.Join(strings.Fields(s), " "))

	for _, c := range candidates {
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}
