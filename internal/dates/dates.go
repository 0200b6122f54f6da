// Package dates provides canonical date parsing, validation and normalization.
//
// Project dates arrive from spreadsheets and hand-edited records in many shapes.
// Everything that turns raw date text into a calendar day goes through this
// package:
// - CLI date args (YYYY-MM-DD or a RelativeKeywords name)
// - timeline placement (Normalizer)
// - import validation
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical ISO layout used for display and storage.
const DateLayout = "2006-01-02"

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse(DateLayout, s)
}

// IsValidDatetime checks if a string is a valid datetime.
//
// Accepted formats:
// - RFC3339 (e.g. 2025-01-01T10:30:00Z, 2025-06-15T14:00:00+05:00)
// - YYYY-MM-DDTHH:MM
// - YYYY-MM-DDTHH:MM:SS
func IsValidDatetime(s string) bool {
	_, err := ParseDatetime(s)
	return err == nil
}

// ParseDatetime parses a datetime in one of the accepted formats.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid datetime: empty")
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime: %q", s)
}

// ParseDateArg parses a command-line date argument: an ISO date, one of
// RelativeKeywords resolved against now, or empty for today.
func ParseDateArg(arg string, now time.Time) (CalendarDate, error) {
	today := FromTime(now)
	if strings.TrimSpace(arg) == "" {
		return today, nil
	}
	if d, ok := ResolveRelativeDate(arg, today); ok {
		return d, nil
	}

	dateArg := strings.ToLower(strings.TrimSpace(arg))
	parsed, err := ParseDate(dateArg)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or one of %s", dateArg, strings.Join(RelativeKeywords, ", "))
	}
	return FromTime(parsed), nil
}
