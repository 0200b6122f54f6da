package dates

import (
	"errors"
	"testing"
	"time"
)

func TestNewCalendarDate(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		ok    bool
	}{
		{name: "plain", year: 2025, month: time.January, day: 15, ok: true},
		{name: "leap day", year: 2024, month: time.February, day: 29, ok: true},
		{name: "leap day 2000", year: 2000, month: time.February, day: 29, ok: true},
		{name: "no leap day 2025", year: 2025, month: time.February, day: 29, ok: false},
		{name: "no leap day 2100", year: 2100, month: time.February, day: 29, ok: false},
		{name: "april 31", year: 2025, month: time.April, day: 31, ok: false},
		{name: "month 13", year: 2025, month: 13, day: 1, ok: false},
		{name: "month 0", year: 2025, month: 0, day: 1, ok: false},
		{name: "day 0", year: 2025, month: time.May, day: 0, ok: false},
		{name: "year 0", year: 0, month: time.May, day: 1, ok: false},
		{name: "year 10000", year: 10000, month: time.May, day: 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewCalendarDate(tt.year, tt.month, tt.day)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if d.Year() != tt.year || d.Month() != tt.month || d.Day() != tt.day {
					t.Fatalf("got %v", d)
				}
				return
			}
			if !errors.Is(err, ErrInvalidCalendarDate) {
				t.Fatalf("expected ErrInvalidCalendarDate, got %v", err)
			}
			if !d.IsZero() {
				t.Fatalf("expected zero date on error, got %v", d)
			}
		})
	}
}

func TestDaysIn(t *testing.T) {
	want := map[time.Month]int{
		time.January: 31, time.February: 28, time.March: 31, time.April: 30,
		time.May: 31, time.June: 30, time.July: 31, time.August: 31,
		time.September: 30, time.October: 31, time.November: 30, time.December: 31,
	}
	for m, days := range want {
		if got := DaysIn(2025, m); got != days {
			t.Errorf("DaysIn(2025, %s) = %d, want %d", m, got, days)
		}
	}
	if got := DaysIn(2024, time.February); got != 29 {
		t.Errorf("DaysIn(2024, February) = %d, want 29", got)
	}
}

func TestCalendarDateArithmetic(t *testing.T) {
	a := MustCalendarDate(2024, time.January, 1)
	b := MustCalendarDate(2025, time.January, 1)

	if got := a.DaysUntil(b); got != 366 {
		t.Fatalf("DaysUntil across leap year = %d, want 366", got)
	}
	if got := b.DaysUntil(a); got != -366 {
		t.Fatalf("DaysUntil backwards = %d, want -366", got)
	}
	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Fatalf("comparison mismatch")
	}
	if got := MustCalendarDate(2025, time.February, 28).AddDays(1); got != MustCalendarDate(2025, time.March, 1) {
		t.Fatalf("AddDays = %v", got)
	}
	if got := MustCalendarDate(1, time.January, 1).DaysUntil(MustCalendarDate(9999, time.December, 31)); got != 3652058 {
		t.Fatalf("DaysUntil full range = %d", got)
	}
}

func TestCalendarDateText(t *testing.T) {
	d := MustCalendarDate(987, time.March, 5)
	if d.String() != "0987-03-05" {
		t.Fatalf("String() = %q", d.String())
	}
	if (CalendarDate{}).String() != "" {
		t.Fatalf("zero date should print empty")
	}

	var parsed CalendarDate
	if err := parsed.UnmarshalText([]byte("2025-07-04")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if parsed != MustCalendarDate(2025, time.July, 4) {
		t.Fatalf("UnmarshalText = %v", parsed)
	}
	if err := parsed.UnmarshalText([]byte("07/04/2025")); err == nil {
		t.Fatalf("UnmarshalText should be strict")
	}
}

func TestFromTimeTruncates(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got := FromTime(time.Date(2025, time.March, 9, 23, 59, 59, 0, loc))
	if got != MustCalendarDate(2025, time.March, 9) {
		t.Fatalf("FromTime = %v", got)
	}
	if !FromTime(time.Time{}).IsZero() {
		t.Fatalf("zero time should map to zero date")
	}
}
