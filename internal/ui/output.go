package ui

import "fmt"

// Symbols for status lines.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Success returns a success line with a green checkmark.
func Success(msg string) string {
	return fmt.Sprintf("%s %s", ScheduleStyle("green").Render(SymbolSuccess), msg)
}

// Successf formats a success line.
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error line.
func Error(msg string) string {
	return fmt.Sprintf("%s %s", ScheduleStyle("red").Render(SymbolError), msg)
}

// Warning returns a warning line.
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", ScheduleStyle("amber").Render(SymbolWarning), msg)
}

// Warningf formats a warning line.
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Header returns a styled section header.
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled path.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint returns muted hint text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a count with the right noun, e.g. "3 warnings".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
