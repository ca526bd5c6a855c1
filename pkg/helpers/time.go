package helpers

import (
	"errors"
	"strings"
	"time"
)

var errInvalidInstant = errors.New("invalid datetime")

// instantLayouts are tried in order; layouts without a zone are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

// ParseInstant parses an ISO-8601 style datetime into a UTC instant
// truncated to milliseconds, the finest precision every store keeps.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidInstant
	}
	for _, l := range instantLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, errInvalidInstant
}
