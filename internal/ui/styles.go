package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): Primary text
// - Accent (soft purple #A78BFA unless configured): Highlights, keys, headers
// - Muted (gray): Secondary info, row numbers
// - Schedule colors: only used for project color status and timeline bars

const defaultAccent = "#A78BFA"

var (
	// Accent style for keys, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info, hints, row numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	// accentColor is the configured accent, empty when using the default.
	accentColor string
)

// scheduleColors maps schedule color codes to terminal colors.
var scheduleColors = map[string]lipgloss.Color{
	"not_started": lipgloss.Color("#6C7086"),
	"green":       lipgloss.Color("#22C55E"),
	"amber":       lipgloss.Color("#F59E0B"),
	"brown":       lipgloss.Color("#A16207"),
	"red":         lipgloss.Color("#EF4444"),
}

// ConfigureTheme applies the configured accent color. Empty, "none", "off"
// and "default" restore the built-in accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		color = defaultAccent
	} else {
		accentColor = color
	}
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = Accent.Bold(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// ScheduleStyle returns the style for a schedule color code.
func ScheduleStyle(code string) lipgloss.Style {
	if c, ok := scheduleColors[code]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return Muted
}

func normalizeAccentColor(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := strings.ToLower(s[1:])
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
