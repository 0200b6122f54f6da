package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Rule names the normalization step that produced (or rejected) a date.
type Rule string

const (
	RuleStructured  Rule = "structured"
	RuleEmpty       Rule = "empty"
	RuleMonthAbbrev Rule = "month_abbrev"
	RuleFormat      Rule = "format"
	RuleHeuristic   Rule = "heuristic"
	RuleUnparseable Rule = "unparseable"
)

// Resolution is the detailed outcome of normalizing one raw value.
type Resolution struct {
	Date   CalendarDate `json:"date"`
	OK     bool         `json:"ok"`
	Rule   Rule         `json:"rule"`
	Format string       `json:"format,omitempty"`
}

// Options configures a Normalizer.
type Options struct {
	// Formats is the ordered textual format list. Nil means DefaultFormats().
	Formats []FormatSpec

	// ReferenceYear completes patterns that carry no year ("Jan 15").
	// Zero disables those patterns.
	ReferenceYear int

	// Logger receives a warning for every date resolved by the numeric
	// heuristic. Nil means no logging.
	Logger *zap.Logger
}

// Normalizer turns loosely formatted date values into CalendarDates.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	formats       []FormatSpec
	referenceYear int
	logger        *zap.Logger
}

var (
	monthAbbrevRegex = regexp.MustCompile(`^([A-Za-z]{3})-(\d{2})$`)
	digitRunRegex    = regexp.MustCompile(`\d+`)
)

var monthAbbrevs = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// NewNormalizer builds a Normalizer. It fails only when a configured format
// pattern is invalid.
func NewNormalizer(opts Options) (*Normalizer, error) {
	specs := opts.Formats
	if specs == nil {
		specs = DefaultFormats()
	}

	compiled := make([]FormatSpec, 0, len(specs))
	for _, spec := range specs {
		c, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Normalizer{
		formats:       compiled,
		referenceYear: opts.ReferenceYear,
		logger:        logger,
	}, nil
}

var defaultNormalizer = func() *Normalizer {
	n, err := NewNormalizer(Options{})
	if err != nil {
		panic(err)
	}
	return n
}()

// Default returns a Normalizer using DefaultFormats, no reference year and no logging.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize is Default().Normalize.
func Normalize(raw any) (CalendarDate, bool) {
	return defaultNormalizer.Normalize(raw)
}

// Formats returns a copy of the configured format list.
func (n *Normalizer) Formats() []FormatSpec {
	out := make([]FormatSpec, len(n.formats))
	copy(out, n.formats)
	return out
}

// Normalize resolves raw to a calendar date. It never panics; the bool is
// false when raw is empty or unparseable.
func (n *Normalizer) Normalize(raw any) (CalendarDate, bool) {
	res := n.Resolve(raw)
	return res.Date, res.OK
}

// Resolve is Normalize with the rule that decided the outcome.
func (n *Normalizer) Resolve(raw any) Resolution {
	switch v := raw.(type) {
	case nil:
		return Resolution{Rule: RuleEmpty}
	case CalendarDate:
		return structured(v)
	case *CalendarDate:
		if v == nil {
			return Resolution{Rule: RuleEmpty}
		}
		return structured(*v)
	case time.Time:
		return structured(FromTime(v))
	case *time.Time:
		if v == nil {
			return Resolution{Rule: RuleEmpty}
		}
		return structured(FromTime(*v))
	case string:
		return n.resolveText(v)
	case *string:
		if v == nil {
			return Resolution{Rule: RuleEmpty}
		}
		return n.resolveText(*v)
	case []byte:
		return n.resolveText(string(v))
	case fmt.Stringer:
		return n.resolveText(v.String())
	default:
		return n.resolveText(fmt.Sprint(v))
	}
}

func structured(d CalendarDate) Resolution {
	if d.IsZero() {
		return Resolution{Rule: RuleEmpty}
	}
	return Resolution{Date: d, OK: true, Rule: RuleStructured}
}

func (n *Normalizer) resolveText(raw string) Resolution {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return Resolution{Rule: RuleEmpty}
	}

	if m := monthAbbrevRegex.FindStringSubmatch(s); m != nil {
		return resolveMonthAbbrev(m[1], m[2])
	}

	if res, ok := n.resolveFormats(s); ok {
		return res
	}

	if d, ok := heuristicDate(s); ok {
		n.logger.Warn("date resolved by numeric heuristic",
			zap.String("raw", raw),
			zap.String("date", d.String()))
		return Resolution{Date: d, OK: true, Rule: RuleHeuristic}
	}

	n.logger.Debug("unparseable date", zap.String("raw", raw))
	return Resolution{Rule: RuleUnparseable}
}

// resolveMonthAbbrev handles "Jan-25" style values: day 1 of 20YY.
func resolveMonthAbbrev(abbrev, yy string) Resolution {
	month, ok := monthAbbrevs[strings.ToLower(abbrev)]
	if !ok {
		return Resolution{Rule: RuleMonthAbbrev}
	}
	year, err := strconv.Atoi(yy)
	if err != nil {
		return Resolution{Rule: RuleMonthAbbrev}
	}
	d, err := NewCalendarDate(2000+year, month, 1)
	if err != nil {
		return Resolution{Rule: RuleMonthAbbrev}
	}
	return Resolution{Date: d, OK: true, Rule: RuleMonthAbbrev}
}

func (n *Normalizer) resolveFormats(s string) (Resolution, bool) {
	for _, spec := range n.formats {
		if !spec.hasYear && n.referenceYear == 0 {
			continue
		}
		t, err := time.Parse(spec.layout, s)
		if err != nil {
			continue
		}
		year := t.Year()
		if !spec.hasYear {
			year = n.referenceYear
		}
		d, err := NewCalendarDate(year, t.Month(), t.Day())
		if err != nil {
			continue
		}
		return Resolution{Date: d, OK: true, Rule: RuleFormat, Format: spec.Pattern}, true
	}
	return Resolution{}, false
}

// heuristicDate guesses a date from the runs of digits in s.
//
// Three numbers: (year, month, day) when the first is a year, otherwise the
// last must be a year and month/day order is picked by range. Two numbers:
// whichever exceeds 50 is the year (two-digit years are 20YY), the other the
// month, clamped to January when out of range; with neither above 50 the pair
// reads as (month, year).
func heuristicDate(s string) (CalendarDate, bool) {
	runs := digitRunRegex.FindAllString(s, -1)
	nums := make([]int, 0, len(runs))
	for _, r := range runs {
		v, err := strconv.Atoi(r)
		if err != nil {
			return CalendarDate{}, false
		}
		nums = append(nums, v)
	}

	var year, month, day int
	switch len(nums) {
	case 3:
		a, b, c := nums[0], nums[1], nums[2]
		switch {
		case a > 1900:
			year, month, day = a, b, c
		case c > 1900:
			year = c
			switch {
			case a <= 12 && b <= 31:
				month, day = a, b
			case b <= 12 && a <= 31:
				day, month = a, b
			default:
				return CalendarDate{}, false
			}
		default:
			return CalendarDate{}, false
		}
	case 2:
		a, b := nums[0], nums[1]
		if a > 50 {
			year, month = a, b
		} else {
			month, year = a, b
		}
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 {
			month = 1
		}
		day = 1
	default:
		return CalendarDate{}, false
	}

	d, err := NewCalendarDate(year, time.Month(month), day)
	if err != nil {
		return CalendarDate{}, false
	}
	return d, true
}
