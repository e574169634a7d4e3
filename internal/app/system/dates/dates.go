// Package dates parses calendar dates from API input and renders them for exports.
package dates

import (
	"errors"
	"strings"
	"time"
)

// DisplayLayout is the Russian DD.MM.YYYY rendering used in exports.
const DisplayLayout = "02.01.2006"

// ErrInvalidDate is returned for input that is neither YYYY-MM-DD nor RFC 3339.
var ErrInvalidDate = errors.New("invalid date")

var layouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05", // datetime-local without zone
}

// Parse reads s as a calendar date and returns UTC midnight of that day.
// Times with a zone keep the calendar day as written in that zone.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		t, err := time.Parse(l, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseOptional returns nil for nil or blank input.
func ParseOptional(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Format renders t as DD.MM.YYYY, or "" when absent.
func Format(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DisplayLayout)
}
