package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // Column name, used for width lookups
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// ResultRow represents a single row in the results table.
type ResultRow struct {
	Num   int      // Row number (1-indexed), used by follow-up commands
	Cells []string // Cell values for each column
}

// ResultsTable provides a unified table renderer for numbered listings.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
}

// Standard column definitions shared across listings.
var (
	// ColNum is the row number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "num",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColName is the main name column (flexible width).
	ColName = ColumnDef{
		Name:       "name",
		WidthRatio: 0.45,
		MinWidth:   24,
		MaxWidth:   80,
		Align:      AlignLeft,
	}

	// ColStatus holds status or role labels.
	ColStatus = ColumnDef{
		Name:     "status",
		MinWidth: 12,
		MaxWidth: 14,
		Align:    AlignLeft,
	}

	// ColProgress is the right-aligned progress percentage.
	ColProgress = ColumnDef{
		Name:     "progress",
		MinWidth: 6,
		Align:    AlignRight,
	}

	// ColDates is the raw start/end range, shown as entered.
	ColDates = ColumnDef{
		Name:       "dates",
		WidthRatio: 0.30,
		MinWidth:   18,
		MaxWidth:   40,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColMeta is a secondary detail column (owner, objective, specialization).
	ColMeta = ColumnDef{
		Name:       "meta",
		WidthRatio: 0.25,
		MinWidth:   12,
		MaxWidth:   35,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// Standard layouts for each listing.
var (
	// ProjectLayout is used for project lists: [num, name, status, progress, dates, meta]
	ProjectLayout = []ColumnDef{ColNum, ColName, ColStatus, ColProgress, ColDates, ColMeta}

	// MemberLayout is used for member lists: [num, name, status, meta]
	MemberLayout = []ColumnDef{ColNum, ColName, ColStatus, ColMeta}

	// InitiativeLayout is used for initiative lists: [num, name, meta, dates]
	InitiativeLayout = []ColumnDef{ColNum, ColName, ColMeta, ColDates}
)

// NewResultsTable creates a new ResultsTable with the given display context and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
		rows:    make([]ResultRow, 0),
	}
}

// AddRow adds a row to the table.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// ContentWidth returns the calculated width for a specific column by name,
// so callers can truncate content before adding rows.
func (t *ResultsTable) ContentWidth(columnName string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == columnName {
			return widths[i]
		}
	}
	return 60 // fallback
}

// columnPadding separates adjacent columns.
const columnPadding = 2

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: calculate fixed widths and total ratio
	var totalRatio float64
	var fixedWidth int

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			// Fixed-width column: use MinWidth or calculate from content
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	// Calculate available space for flexible columns
	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2 // indent for aesthetic
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin

	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			// Calculate proportional width
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			// Apply min/max constraints
			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	// Build table data
	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				tableRow[j] = row.Cells[j]
			}
		}
		tableRows[i] = tableRow
	}

	// Create lipgloss table with minimal border style
	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			// lipgloss counts padding inside Width, so padded columns get
			// their padding on top of the content width.
			width := widths[col]
			if col < len(t.columns)-1 {
				width += columnPadding
			}
			style = style.Width(width)

			// Set alignment
			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			// Add right padding except for last column
			if col < len(t.columns)-1 {
				style = style.PaddingRight(columnPadding)
			}

			return style
		}).
		Rows(tableRows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen runes, adding an
// ellipsis if needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(0, maxLen)])
	}

	truncated := string(r[:maxLen-3])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > 0 && utf8.RuneCountInString(truncated[:lastSpace]) > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
