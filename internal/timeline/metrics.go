package timeline

import (
	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
)

// DurationDays is the inclusive day count of span. Unresolved or inverted
// spans count as zero days.
func DurationDays(span Span) int {
	if !span.Valid() {
		return 0
	}
	n := span.Start.DaysUntil(span.End) + 1
	if n < 0 {
		return 0
	}
	return n
}

// IsOverdue reports whether span ended before today without being completed.
// An unresolved end date is never overdue.
func IsOverdue(span Span, status string, today dates.CalendarDate) bool {
	if span.End.IsZero() || today.IsZero() {
		return false
	}
	return span.End.Before(today) && model.NormalizeStatus(status) != model.StatusCompleted
}

// ElapsedPercentage places today linearly between start and end, counting
// whole days inclusively, rounded to 1 decimal.
func ElapsedPercentage(span Span, today dates.CalendarDate) float64 {
	if !span.Valid() || today.IsZero() {
		return 0
	}
	switch {
	case today.Before(span.Start):
		return 0
	case today.After(span.End):
		return 100
	}
	total := span.Start.DaysUntil(span.End) + 1
	if total <= 0 {
		return 100
	}
	elapsed := span.Start.DaysUntil(today) + 1
	return clampPercent(round1(float64(elapsed) / float64(total) * 100))
}

// DaysRemaining is the signed number of days from today to the span's end.
// ok is false when either date is missing.
func DaysRemaining(span Span, today dates.CalendarDate) (int, bool) {
	if span.End.IsZero() || today.IsZero() {
		return 0, false
	}
	return today.DaysUntil(span.End), true
}
