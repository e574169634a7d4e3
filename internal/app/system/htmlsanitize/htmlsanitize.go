// Package htmlsanitize strips markup from user-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds the decode/sanitize loop for deeply nested entities.
const maxPasses = 8

// PlainText removes all HTML from s and trims surrounding whitespace.
// Entities are decoded and the result sanitized again until it is stable, so
// "ООО «Рога & Копыта»" round-trips unchanged while entity-encoded markup
// never survives as live tags.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	v := html.UnescapeString(s)
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(v))
		if next == v {
			return strings.TrimSpace(v)
		}
		v = next
	}
	return strings.TrimSpace(strict.Sanitize(v))
}

// PlainTextPtr applies PlainText to an optional value.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	return &v
}
