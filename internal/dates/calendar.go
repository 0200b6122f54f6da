package dates

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCalendarDate is returned when a year/month/day triple does not name
// a real Gregorian day.
var ErrInvalidCalendarDate = errors.New("invalid calendar date")

// Year bounds accepted by NewCalendarDate. They match what DateLayout can print.
const (
	MinYear = 1
	MaxYear = 9999
)

const secondsPerDay = 24 * 60 * 60

// CalendarDate is a Gregorian (year, month, day) with no time-of-day or zone.
// The zero value means "no date".
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalendarDate validates and builds a CalendarDate.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if year < MinYear || year > MaxYear {
		return CalendarDate{}, fmt.Errorf("%w: year %d out of range", ErrInvalidCalendarDate, year)
	}
	if month < time.January || month > time.December {
		return CalendarDate{}, fmt.Errorf("%w: month %d out of range", ErrInvalidCalendarDate, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return CalendarDate{}, fmt.Errorf("%w: day %d out of range for %d-%02d", ErrInvalidCalendarDate, day, year, month)
	}
	return CalendarDate{year: year, month: month, day: day}, nil
}

// MustCalendarDate is NewCalendarDate for literals known to be valid.
func MustCalendarDate(year int, month time.Month, day int) CalendarDate {
	d, err := NewCalendarDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) CalendarDate {
	if t.IsZero() {
		return CalendarDate{}
	}
	y, m, d := t.Date()
	return CalendarDate{year: y, month: m, day: d}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (d CalendarDate) Year() int         { return d.year }
func (d CalendarDate) Month() time.Month { return d.month }
func (d CalendarDate) Day() int          { return d.day }

// IsZero reports whether d is the absent date.
func (d CalendarDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Time returns midnight UTC of d.
func (d CalendarDate) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// String formats d as YYYY-MM-DD, or "" for the zero date.
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// Compare returns -1, 0 or +1 when d is before, equal to or after other.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }
func (d CalendarDate) After(other CalendarDate) bool  { return d.Compare(other) > 0 }
func (d CalendarDate) Equal(other CalendarDate) bool  { return d == other }

// SameMonth reports whether d falls in the given year and month.
func (d CalendarDate) SameMonth(year int, month time.Month) bool {
	return d.year == year && d.month == month
}

// DaysUntil returns the signed number of days from d to other.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int((other.Time().Unix() - d.Time().Unix()) / secondsPerDay)
}

// AddDays returns d shifted by n days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	if d.IsZero() {
		return d
	}
	return FromTime(d.Time().AddDate(0, 0, n))
}

// MarshalText implements encoding.TextMarshaler.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for strict YYYY-MM-DD text.
func (d *CalendarDate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = CalendarDate{}
		return nil
	}
	t, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = FromTime(t)
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
