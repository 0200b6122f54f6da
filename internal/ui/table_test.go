package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/goleak"
)

func TestTableAlignsStyledCells(t *testing.T) {
	tbl := NewTable(2)
	tbl.AddRow(Accent.Render("projects"), "12")
	tbl.AddRow("members", "4", "dropped")

	lines := strings.Split(strings.TrimRight(ansi.Strip(tbl.String()), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "projects  12" || lines[1] != "members   4" {
		t.Fatalf("unexpected alignment:\n%q\n%q", lines[0], lines[1])
	}
	if NewTable(3).String() != "" {
		t.Fatal("empty table should render nothing")
	}
}

func TestTablePadsBlankCells(t *testing.T) {
	tbl := NewTable(3)
	tbl.SetPadding(1)
	tbl.AddRow("billing", "", "2025-03-31")
	tbl.AddRow("data-lake", "TBD")

	lines := strings.Split(strings.TrimRight(ansi.Strip(tbl.String()), "\n"), "\n")
	want := []string{
		"billing       2025-03-31",
		"data-lake TBD ",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSpaces(t *testing.T) {
	for n, want := range map[int]string{-3: "", 0: "", 2: "  "} {
		if got := spaces(n); got != want {
			t.Errorf("spaces(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestList(t *testing.T) {
	l := NewList()
	l.Add("first")
	l.Add("second")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d", l.Len())
	}
	if got := ansi.Strip(l.String()); got != "  • first\n  • second\n" {
		t.Fatalf("List.String() = %q", got)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "warning", "warnings"); got != "1 warning" {
		t.Fatalf("Count(1) = %q", got)
	}
	if got := Count(0, "warning", "warnings"); got != "0 warnings" {
		t.Fatalf("Count(0) = %q", got)
	}
}

func TestSpinnerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	s := NewSpinner("importing")
	s.out = &buf
	s.tty = true

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("expected cleared line after stop, got %q", buf.String())
	}
}

func TestSpinnerWithoutTerminalIsSilent(t *testing.T) {
	defer goleak.VerifyNone(t)

	var buf bytes.Buffer
	s := NewSpinner("importing")
	s.out = &buf
	s.tty = false
	s.Start()
	s.Stop()
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
