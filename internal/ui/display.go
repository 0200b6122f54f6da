package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
)

// Terminal width bounds. MinTermWidth fits a short label column and twelve
// of the narrowest timeline cells.
const (
	DefaultTermWidth = 120
	MinTermWidth     = 60
)

// DisplayContext describes the output ptrack draws tables, timelines and
// rendered markdown on.
type DisplayContext struct {
	TermWidth int  // detected, $COLUMNS or fallback width
	IsTTY     bool // whether stdout is a terminal
}

// NewDisplayContext inspects stdout. A terminal reports its own width;
// piped output (reports, `timeline > file`) honors $COLUMNS.
func NewDisplayContext() *DisplayContext {
	return detectDisplay(os.Stdout.Fd(), os.Getenv("COLUMNS"))
}

func detectDisplay(fd uintptr, columns string) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.TermWidth = w
		}
	} else if n, err := strconv.Atoi(strings.TrimSpace(columns)); err == nil && n > 0 {
		d.TermWidth = n
	}
	d.TermWidth = max(d.TermWidth, MinTermWidth)
	return d
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{
		TermWidth: width,
		IsTTY:     true,
	}
}
