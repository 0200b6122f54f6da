package dates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned for a format pattern that cannot identify a month.
var ErrInvalidFormat = errors.New("invalid date format pattern")

// FormatSpec is one entry of the ordered textual format list tried by the
// Normalizer. Pattern uses the tokens below; everything else is literal.
//
//	YYYY  four-digit year      YY  two-digit year
//	MMMM  full month name      MMM abbreviated month name
//	MM    two-digit month      M   one- or two-digit month
//	DD    two-digit day        D   one- or two-digit day
//	hh mm ss  24h time fields  ZZ  numeric zone or Z
//
// Month names match case-insensitively. A pattern without a day token resolves
// to the first of the month. A pattern without a year token is completed with
// the Normalizer's reference year.
type FormatSpec struct {
	Pattern string `toml:"pattern" yaml:"pattern" json:"pattern"`
	Meaning string `toml:"meaning" yaml:"meaning" json:"meaning"`

	layout  string
	hasYear bool
}

var patternReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"MMMM", "January",
	"MMM", "Jan",
	"YY", "06",
	"MM", "01",
	"M", "1",
	"DD", "02",
	"D", "2",
	"hh", "15",
	"mm", "04",
	"ss", "05",
	"ZZ", "Z07:00",
)

// Layout returns the Go reference layout for the pattern.
func (f FormatSpec) Layout() string {
	if f.layout != "" {
		return f.layout
	}
	return patternReplacer.Replace(f.Pattern)
}

// HasYear reports whether the pattern carries its own year.
func (f FormatSpec) HasYear() bool {
	return strings.Contains(f.Pattern, "YY")
}

// Compile validates the pattern and caches its layout.
func (f FormatSpec) Compile() (FormatSpec, error) {
	p := strings.TrimSpace(f.Pattern)
	if p == "" {
		return FormatSpec{}, fmt.Errorf("%w: empty pattern", ErrInvalidFormat)
	}
	if !strings.Contains(p, "M") {
		return FormatSpec{}, fmt.Errorf("%w: %q has no month token", ErrInvalidFormat, p)
	}
	f.Pattern = p
	f.layout = patternReplacer.Replace(p)
	f.hasYear = f.HasYear()
	return f, nil
}

// DefaultFormats returns the built-in ordered format list. Order matters: US
// month-first forms are tried before day-first forms, so "03/04/2025" is
// March 4th while "25/12/2025" still resolves as December 25th.
func DefaultFormats() []FormatSpec {
	return []FormatSpec{
		{Pattern: "YYYY-M-D", Meaning: "ISO date"},
		{Pattern: "M/D/YYYY", Meaning: "US slash date"},
		{Pattern: "D/M/YYYY", Meaning: "EU slash date"},
		{Pattern: "YYYY/M/D", Meaning: "year-first slash date"},
		{Pattern: "M-D-YYYY", Meaning: "US dash date"},
		{Pattern: "D-M-YYYY", Meaning: "EU dash date"},
		{Pattern: "MMM D, YYYY", Meaning: "abbreviated month, day, year"},
		{Pattern: "MMMM D, YYYY", Meaning: "month name, day, year"},
		{Pattern: "MMM D YYYY", Meaning: "abbreviated month, day, year without comma"},
		{Pattern: "MMMM D YYYY", Meaning: "month name, day, year without comma"},
		{Pattern: "D MMM YYYY", Meaning: "day, abbreviated month, year"},
		{Pattern: "D MMMM YYYY", Meaning: "day, month name, year"},
		{Pattern: "MMM-YYYY", Meaning: "abbreviated month and year"},
		{Pattern: "MMM YYYY", Meaning: "abbreviated month and year"},
		{Pattern: "MMMM YYYY", Meaning: "month name and year"},
		{Pattern: "YYYY-MM-DDThh:mm:ssZZ", Meaning: "RFC 3339 timestamp"},
		{Pattern: "YYYY-MM-DDThh:mm:ss", Meaning: "ISO timestamp without zone"},
		{Pattern: "YYYY-MM-DD hh:mm:ss", Meaning: "SQL timestamp"},
		{Pattern: "YYYY-MM-DDThh:mm", Meaning: "ISO timestamp without seconds"},
		{Pattern: "MMM D", Meaning: "abbreviated month and day (reference year)"},
		{Pattern: "MMMM D", Meaning: "month name and day (reference year)"},
		{Pattern: "D MMMM", Meaning: "day and month name (reference year)"},
	}
}

// ParseFormats compiles configured patterns in order. Meanings are optional.
func ParseFormats(patterns []string) ([]FormatSpec, error) {
	specs := make([]FormatSpec, 0, len(patterns))
	for _, p := range patterns {
		spec, err := FormatSpec{Pattern: p}.Compile()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
