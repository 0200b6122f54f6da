package dates

import (
	"strings"
	"time"
)

// RelativeKeywords lists the named days accepted wherever a command takes a
// date argument, in help-text order.
var RelativeKeywords = []string{"today", "yesterday", "tomorrow", "month-end", "quarter-end", "year-end"}

var relativeKeywords = map[string]func(today CalendarDate) CalendarDate{
	"today":       func(d CalendarDate) CalendarDate { return d },
	"yesterday":   func(d CalendarDate) CalendarDate { return d.AddDays(-1) },
	"tomorrow":    func(d CalendarDate) CalendarDate { return d.AddDays(1) },
	"month-end":   func(d CalendarDate) CalendarDate { return lastDayOf(d.Year(), d.Month()) },
	"quarter-end": quarterEnd,
	"year-end":    func(d CalendarDate) CalendarDate { return lastDayOf(d.Year(), time.December) },
}

// ResolveRelativeDate resolves a named day against today. Keywords are
// case-insensitive and accept "_" or a space in place of "-".
func ResolveRelativeDate(value string, today CalendarDate) (CalendarDate, bool) {
	keyword := strings.ToLower(strings.TrimSpace(value))
	keyword = strings.NewReplacer("_", "-", " ", "-").Replace(keyword)
	resolve, ok := relativeKeywords[keyword]
	if !ok || today.IsZero() {
		return CalendarDate{}, false
	}
	return resolve(today), true
}

func quarterEnd(d CalendarDate) CalendarDate {
	last := time.Month((int(d.Month())-1)/3*3 + 3)
	return lastDayOf(d.Year(), last)
}

func lastDayOf(year int, month time.Month) CalendarDate {
	return MustCalendarDate(year, month, DaysIn(year, month))
}
