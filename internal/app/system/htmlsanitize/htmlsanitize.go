// Package htmlsanitize cleans user-authored text before it is stored and
// echoed to every connected client.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and drops scripts, event handlers
// and javascript: links.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// StripTags removes all markup.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}

// IsPlainText reports whether s has nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<")
}

// Clean returns plain text untouched and sanitizes anything with markup.
// Journal entries are mostly plain text; escaping it would turn "a & b"
// into "a &amp; b" for API clients.
func Clean(s string) string {
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}
