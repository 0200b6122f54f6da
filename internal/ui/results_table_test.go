package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "one two three four five", max: 12, want: "one two..."},
		{in: "abcdefghij", max: 6, want: "abc..."},
		{in: "abcdef", max: 2, want: "ab"},
		{in: "Équipe données", max: 9, want: "Équipe..."},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatRowNum(t *testing.T) {
	if got := FormatRowNum(3, 9); got != " 3" {
		t.Fatalf("FormatRowNum(3, 9) = %q", got)
	}
	if got := FormatRowNum(7, 120); got != "  7" {
		t.Fatalf("FormatRowNum(7, 120) = %q", got)
	}
}

func TestResultsTableRender(t *testing.T) {
	tbl := NewResultsTable(NewDisplayContextWithWidth(100), ProjectLayout)
	if tbl.Render() != "" {
		t.Fatal("empty table should render nothing")
	}

	tbl.AddRow(ResultRow{Num: 1, Cells: []string{"1", "Billing revamp", "In Progress", "45%", "Jan-25 → TBD"}})
	tbl.AddRow(ResultRow{Num: 2, Cells: []string{"2", "Data lake", "Incoming"}})

	out := ansi.Strip(tbl.Render())
	for _, want := range []string{"Billing revamp", "In Progress", "45%", "Jan-25 → TBD", "Data lake"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
	if w := tbl.ContentWidth("name"); w < ColName.MinWidth || w > ColName.MaxWidth {
		t.Errorf("ContentWidth(name) = %d, outside [%d, %d]", w, ColName.MinWidth, ColName.MaxWidth)
	}
	if w := tbl.ContentWidth("missing"); w != 60 {
		t.Errorf("ContentWidth(missing) = %d, want fallback 60", w)
	}
}

func TestResultsTableCellsDoNotWrap(t *testing.T) {
	tbl := NewResultsTable(NewDisplayContextWithWidth(100), ProjectLayout)
	name := strings.Repeat("n", tbl.ContentWidth("name"))
	status := strings.Repeat("s", tbl.ContentWidth("status"))
	tbl.AddRow(ResultRow{Num: 1, Cells: []string{"1", name, status, "100%", "Jan-25 → Dec-25", "vendor"}})
	tbl.AddRow(ResultRow{Num: 2, Cells: []string{"2", "Billing revamp", "In Progress", "45%", "Jan-25 → TBD"}})

	lines := strings.Split(strings.TrimRight(ansi.Strip(tbl.Render()), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected two rows and a separator, got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], name) || !strings.Contains(lines[0], status) {
		t.Errorf("full-width cells wrapped:\n%s", lines[0])
	}
	if !strings.Contains(lines[2], "Billing revamp") || !strings.Contains(lines[2], "In Progress") {
		t.Errorf("status label wrapped:\n%s", lines[2])
	}

	members := NewResultsTable(NewDisplayContextWithWidth(80), MemberLayout)
	members.AddRow(ResultRow{Num: 1, Cells: []string{"1", "Amal Haddad (amal)", "overloaded", "Developer"}})
	if out := ansi.Strip(members.Render()); strings.Count(strings.TrimRight(out, "\n"), "\n") != 0 {
		t.Errorf("single member row should render on one line:\n%s", out)
	}
}
