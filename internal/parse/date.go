package parse

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// DueDate parses a due date entered either as a calendar day (YYYY-MM-DD, interpreted
// at midnight in loc) or as an RFC 3339 timestamp.
func DueDate(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date is empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse due date %q: %w", raw, err)
	}
	return t, nil
}
