// Package render draws portfolio data for the terminal: the year timeline
// grid, markdown reports and project detail pages.
package render

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

// Grid geometry limits.
const (
	MinCellWidth   = 3
	MaxCellWidth   = 12
	MaxLabelWidth  = 28
	monthSeparator = "│"
)

const (
	barRune    = '█'
	markerRune = '┃'
	emptyRune  = ' '
)

// CellWidth picks the month cell width that fits twelve cells, their
// eleven separators and a label column of labelWidth into termWidth.
func CellWidth(termWidth, labelWidth int) int {
	w := (termWidth - labelWidth - 1 - 11) / 12
	return max(MinCellWidth, min(MaxCellWidth, w))
}

// Cell draws one month cell as plain runes. Active months place the bar at
// the layout's margin and width (at least one rune so short spans stay
// visible); a progress overlay becomes a marker inside the cell.
func Cell(l timeline.SpanLayout, width int) string {
	cell := []rune(strings.Repeat(string(emptyRune), width))
	if !l.IsActive || width <= 0 {
		return string(cell)
	}

	start := int(math.Round(l.MarginLeftPercentage * float64(width) / 100))
	n := int(math.Round(l.WidthPercentage * float64(width) / 100))
	n = max(1, min(width, n))
	start = max(0, min(start, width-n))
	for i := start; i < start+n; i++ {
		cell[i] = barRune
	}

	if l.ProgressPercentage != nil {
		pos := int(*l.ProgressPercentage * float64(width) / 100)
		cell[max(0, min(width-1, pos))] = markerRune
	}
	return string(cell)
}

// Timeline renders a board as a label column followed by twelve month
// cells. termWidth sizes the cells; rows whose dates did not resolve are
// listed with a note instead of bars.
func Timeline(b *timeline.Board, termWidth int) string {
	labelWidth := len("Project")
	for _, r := range b.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}
	labelWidth = min(labelWidth, MaxLabelWidth)
	cellWidth := CellWidth(termWidth, labelWidth)

	var sb strings.Builder
	sb.WriteString(header(b, labelWidth, cellWidth))
	sb.WriteByte('\n')

	sep := ui.Muted.Render(monthSeparator)
	for _, r := range b.Rows {
		sb.WriteString(padRight(ui.TruncateWithEllipsis(r.Label, labelWidth), labelWidth))
		sb.WriteByte(' ')

		if !r.Resolved {
			sb.WriteString(ui.Muted.Render("dates unresolved"))
			sb.WriteByte('\n')
			continue
		}

		style := ui.ScheduleStyle(r.Color)
		if r.Color == "" || r.Color == model.ColorNotStarted {
			style = ui.Accent
		}
		for i, l := range r.Months {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(style.Render(Cell(l, cellWidth)))
		}
		if r.Overdue {
			sb.WriteString(ui.ScheduleStyle(model.ColorRed).Render(" overdue"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func header(b *timeline.Board, labelWidth, cellWidth int) string {
	var sb strings.Builder
	sb.WriteString(ui.Bold.Render(padRight(strconv.Itoa(b.Year), labelWidth)))
	sb.WriteByte(' ')

	for m := time.January; m <= time.December; m++ {
		if m > time.January {
			sb.WriteString(" ")
		}
		name := model.MonthAbbrev(m)
		if cellWidth < len(name) {
			name = name[:cellWidth]
		}
		cell := lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, name)
		if b.Today.Year() == b.Year && b.Today.Month() == m {
			sb.WriteString(ui.AccentBold.Render(cell))
		} else {
			sb.WriteString(ui.Muted.Render(cell))
		}
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
