// Package model defines the portfolio entities shared by storage, import,
// timeline and dashboard code.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Project statuses.
const (
	StatusIncoming   = "incoming"
	StatusInProgress = "in_progress"
	StatusOutgoing   = "outgoing"
	StatusCompleted  = "completed"
	StatusDelayed    = "delayed"
)

// Statuses lists every project status in display order.
var Statuses = []string{StatusIncoming, StatusInProgress, StatusOutgoing, StatusCompleted, StatusDelayed}

// Schedule colors reported on projects and monthly progress entries.
const (
	ColorNotStarted = "not_started"
	ColorGreen      = "green"
	ColorAmber      = "amber"
	ColorBrown      = "brown"
	ColorRed        = "red"
)

// Colors lists every schedule color in display order.
var Colors = []string{ColorNotStarted, ColorGreen, ColorAmber, ColorBrown, ColorRed}

var colorLabels = map[string]string{
	ColorNotStarted: "Not Started",
	ColorGreen:      "Green - On Schedule",
	ColorAmber:      "Amber - Partly on Schedule",
	ColorBrown:      "Brown - Almost off Schedule",
	ColorRed:        "Red - Out of Schedule",
}

var (
	ErrUnknownStatus = errors.New("unknown project status")
	ErrUnknownColor  = errors.New("unknown schedule color")
	ErrUnknownMonth  = errors.New("unknown month abbreviation")
)

// NormalizeStatus folds a human-entered status into its canonical form:
// lowercase with spaces and hyphens as underscores ("In Progress" ->
// "in_progress"). Unknown statuses are normalized but not rejected.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}

// ValidateStatus normalizes s and checks it against Statuses. An empty
// status defaults to incoming.
func ValidateStatus(s string) (string, error) {
	n := NormalizeStatus(s)
	if n == "" {
		return StatusIncoming, nil
	}
	for _, known := range Statuses {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// StatusLabel is the display form of a status.
func StatusLabel(status string) string {
	n := NormalizeStatus(status)
	if n == "" {
		return ""
	}
	words := strings.Split(n, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ValidateColor normalizes c and checks it against Colors. An empty color
// defaults to not_started. "Green - On Schedule" style labels are accepted.
func ValidateColor(c string) (string, error) {
	n := NormalizeStatus(c)
	if n == "" {
		return ColorNotStarted, nil
	}
	for _, known := range Colors {
		if n == known || NormalizeStatus(colorLabels[known]) == n {
			return known, nil
		}
	}
	if head, _, ok := strings.Cut(c, "-"); ok {
		if h := NormalizeStatus(head); h != "" && h != n {
			return ValidateColor(h)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, c)
}

// ColorLabel is the display form of a schedule color.
func ColorLabel(color string) string {
	if l, ok := colorLabels[color]; ok {
		return l
	}
	return color
}

var monthAbbrevs = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthAbbrev returns the three-letter abbreviation used by progress entries.
func MonthAbbrev(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrevs[m-1]
}

// ParseMonthAbbrev maps "Jan".."Dec" (any case) to a month.
func ParseMonthAbbrev(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	for i, a := range monthAbbrevs {
		if strings.EqualFold(a, s) {
			return time.Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, s)
}

// Project is one tracked piece of work.
type Project struct {
	// ID is a time-ordered UUID assigned on first import.
	ID string `json:"id" yaml:"id,omitempty"`

	// Key is the slug used to match re-imports and for CLI lookups.
	Key string `json:"key" yaml:"key,omitempty"`

	Name              string `json:"name" yaml:"name"`
	Developer         string `json:"developer,omitempty" yaml:"developer,omitempty"`
	SystemAnalyst     string `json:"system_analyst,omitempty" yaml:"system_analyst,omitempty"`
	ResponsiblePerson string `json:"responsible_person,omitempty" yaml:"responsible_person,omitempty"`

	// StartRaw and EndRaw hold the dates exactly as entered. They are
	// normalized at read time.
	StartRaw string `json:"start" yaml:"start"`
	EndRaw   string `json:"end" yaml:"end"`

	// Progress is the reported completion, 0..100.
	Progress float64 `json:"progress" yaml:"progress"`

	Status      string `json:"status" yaml:"status"`
	ColorStatus string `json:"color_status" yaml:"color_status"`

	// Comments is free markdown.
	Comments string `json:"comments,omitempty" yaml:"comments,omitempty"`

	BeneficiaryDivision string `json:"beneficiary_division,omitempty" yaml:"beneficiary_division,omitempty"`
	PerformanceMeasure  string `json:"performance_measure,omitempty" yaml:"performance_measure,omitempty"`

	// ObjectiveKey, InitiativeKey and PlanName reference other portfolio
	// entities by their natural key.
	ObjectiveKey  string `json:"objective,omitempty" yaml:"objective,omitempty"`
	InitiativeKey string `json:"initiative,omitempty" yaml:"initiative,omitempty"`
	PlanName      string `json:"plan,omitempty" yaml:"plan,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// GetID returns the project's key, falling back to its ID.
func (p Project) GetID() string {
	if p.Key != "" {
		return p.Key
	}
	return p.ID
}

// GetKind returns "project".
func (p Project) GetKind() string { return "project" }

// GetContent returns the project name.
func (p Project) GetContent() string { return p.Name }

// GetLocation returns the raw date range.
func (p Project) GetLocation() string { return p.StartRaw + " → " + p.EndRaw }

// ProgressEntry is one monthly schedule report for a project.
type ProgressEntry struct {
	ProjectID  string     `json:"project_id"`
	ProjectKey string     `json:"project"`
	Month      time.Month `json:"month"`
	Year       int        `json:"year"`
	Color      string     `json:"color"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
