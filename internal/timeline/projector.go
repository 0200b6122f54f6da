package timeline

import (
	"encoding/json"
	"math"
	"time"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
)

// Span is a project's normalized (start, end) pair. Either side may be the
// zero date when the raw value could not be parsed. Start <= End is not
// enforced.
type Span struct {
	Start dates.CalendarDate `json:"start"`
	End   dates.CalendarDate `json:"end"`
}

// Valid reports whether both endpoints resolved.
func (s Span) Valid() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// Inverted reports whether the span ends before it starts.
func (s Span) Inverted() bool {
	return s.Valid() && s.End.Before(s.Start)
}

// SpanLayout is the placement of one span inside one month cell.
// Percentages are of the month's day count, rounded to 2 decimals and
// clamped to [0, 100].
type SpanLayout struct {
	IsActive             bool     `json:"is_active"`
	IsStartMonth         bool     `json:"is_start_month"`
	IsEndMonth           bool     `json:"is_end_month"`
	WidthPercentage      float64  `json:"width_percentage"`
	MarginLeftPercentage float64  `json:"margin_left_percentage"`
	ProgressPercentage   *float64 `json:"progress_percentage,omitempty"`
}

// MarshalJSON renders an inactive layout as {"is_active": false} only.
func (l SpanLayout) MarshalJSON() ([]byte, error) {
	if !l.IsActive {
		return []byte(`{"is_active":false}`), nil
	}
	type plain SpanLayout
	return json.Marshal(plain(l))
}

// Options configures a Projector.
type Options struct {
	// Normalizer resolves raw start/end values. Nil means dates.Default().
	Normalizer *dates.Normalizer

	// ActiveStatuses are the statuses that get a progress overlay.
	// Nil means DefaultActiveStatuses.
	ActiveStatuses []string
}

// DefaultActiveStatuses are the statuses treated as work in progress.
var DefaultActiveStatuses = []string{model.StatusInProgress, "active"}

// Projector combines date normalization with month layout. It is immutable
// and safe for concurrent use.
type Projector struct {
	normalizer *dates.Normalizer
	active     map[string]bool
}

// NewProjector builds a Projector.
func NewProjector(opts Options) *Projector {
	n := opts.Normalizer
	if n == nil {
		n = dates.Default()
	}
	statuses := opts.ActiveStatuses
	if statuses == nil {
		statuses = DefaultActiveStatuses
	}
	active := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		active[model.NormalizeStatus(s)] = true
	}
	return &Projector{normalizer: n, active: active}
}

// SpanOf normalizes a raw start/end pair once so it can be reused for every
// month of a grid.
func (p *Projector) SpanOf(rawStart, rawEnd any) Span {
	start, _ := p.normalizer.Normalize(rawStart)
	end, _ := p.normalizer.Normalize(rawEnd)
	return Span{Start: start, End: end}
}

// IsActiveStatus reports whether status gets a progress overlay.
func (p *Projector) IsActiveStatus(status string) bool {
	return p.active[model.NormalizeStatus(status)]
}

// IsActive reports whether span overlaps the given month.
func IsActive(span Span, year int, month time.Month) bool {
	if !span.Valid() {
		return false
	}
	w, ok := Window(year, month)
	if !ok {
		return false
	}
	return w.Overlaps(span.Start, span.End)
}

// Layout computes the bar geometry of span inside the given month, without
// a progress overlay.
func Layout(span Span, year int, month time.Month) SpanLayout {
	if !span.Valid() {
		return SpanLayout{}
	}
	w, ok := Window(year, month)
	if !ok || !w.Overlaps(span.Start, span.End) {
		return SpanLayout{}
	}

	days := float64(w.DaysInMonth())
	isStart := span.Start.SameMonth(year, month)
	isEnd := span.End.SameMonth(year, month)

	var width, margin float64
	switch {
	case isStart && isEnd:
		width = float64(span.End.Day()-span.Start.Day()+1) / days * 100
		margin = float64(span.Start.Day()-1) / days * 100
	case isStart:
		width = (days - float64(span.Start.Day()) + 1) / days * 100
		margin = float64(span.Start.Day()-1) / days * 100
	case isEnd:
		width = float64(span.End.Day()) / days * 100
	default:
		width = 100
	}

	return SpanLayout{
		IsActive:             true,
		IsStartMonth:         isStart,
		IsEndMonth:           isEnd,
		WidthPercentage:      clampPercent(round2(width)),
		MarginLeftPercentage: clampPercent(round2(margin)),
	}
}

// Project is Layout plus the progress overlay: when status is active work,
// today falls inside the month and the span has started, the layout carries
// the elapsed share of the span (capped at 100).
func (p *Projector) Project(span Span, status string, year int, month time.Month, today dates.CalendarDate) SpanLayout {
	l := Layout(span, year, month)
	if !l.IsActive || today.IsZero() || !p.IsActiveStatus(status) {
		return l
	}
	w, _ := Window(year, month)
	if !w.Contains(today) || today.Before(span.Start) {
		return l
	}

	progress := 100.0
	if total := span.Start.DaysUntil(span.End) + 1; total > 0 {
		elapsed := span.Start.DaysUntil(today) + 1
		progress = math.Min(100, float64(elapsed)/float64(total)*100)
	}
	progress = round2(progress)
	l.ProgressPercentage = &progress
	return l
}

// YearRow lays out span across the twelve months of year.
func (p *Projector) YearRow(span Span, status string, year int, today dates.CalendarDate) [12]SpanLayout {
	var row [12]SpanLayout
	for i := range row {
		row[i] = p.Project(span, status, year, time.Month(i+1), today)
	}
	return row
}

// MonthsActive lists the months of year in which span is active.
func MonthsActive(span Span, year int) []time.Month {
	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if IsActive(span, year, m) {
			months = append(months, m)
		}
	}
	return months
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
