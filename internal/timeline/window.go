// Package timeline places project spans on a month-by-month calendar grid.
//
// All functions are total: unparseable or missing dates degrade to
// "inactive", zero or absent values instead of errors.
package timeline

import (
	"time"

	"github.com/portfolio-labs/ptrack/internal/dates"
)

// MonthWindow is the first and last calendar day of one month.
type MonthWindow struct {
	Year  int
	Month time.Month
	First dates.CalendarDate
	Last  dates.CalendarDate
}

// Window builds the MonthWindow for year/month. ok is false for a month
// outside 1..12 or a year outside the supported calendar range.
func Window(year int, month time.Month) (MonthWindow, bool) {
	first, err := dates.NewCalendarDate(year, month, 1)
	if err != nil {
		return MonthWindow{}, false
	}
	last, err := dates.NewCalendarDate(year, month, dates.DaysIn(year, month))
	if err != nil {
		return MonthWindow{}, false
	}
	return MonthWindow{Year: year, Month: month, First: first, Last: last}, true
}

// DaysInMonth returns the number of days in the window.
func (w MonthWindow) DaysInMonth() int {
	return w.Last.Day()
}

// Contains reports whether d falls inside the window, boundaries included.
func (w MonthWindow) Contains(d dates.CalendarDate) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(w.First) && !d.After(w.Last)
}

// Overlaps reports whether [start, end] touches the window. Ties at the
// boundaries count as overlap.
func (w MonthWindow) Overlaps(start, end dates.CalendarDate) bool {
	return !(end.Before(w.First) || start.After(w.Last))
}
