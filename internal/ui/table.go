package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a borderless, space-aligned table for key/value style output.
// Widths are measured on rendered text, so styled cells line up.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a table with cols columns.
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row. Extra cells are dropped, missing ones are blank.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// SetPadding sets the padding between columns.
func (t *Table) SetPadding(padding int) {
	t.colPadding = padding
}

func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(spaces(t.colWidths[i] - lipgloss.Width(cell)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// List renders indented bullet items.
type List struct {
	items  []string
	indent string
	bullet string
}

// NewList creates a list with a two-space indent and a dot bullet.
func NewList() *List {
	return &List{
		indent: "  ",
		bullet: "•",
	}
}

// Add appends an item.
func (l *List) Add(item string) {
	l.items = append(l.items, item)
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

func (l *List) String() string {
	var sb strings.Builder
	for _, item := range l.items {
		sb.WriteString(l.indent)
		sb.WriteString(Muted.Render(l.bullet))
		sb.WriteString(" ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}

// spaces returns n spaces, or "" when n <= 0.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
