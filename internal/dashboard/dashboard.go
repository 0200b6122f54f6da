// Package dashboard computes the portfolio summary: headline counts, schedule
// colors, team workload, recent work, upcoming deadlines and initiative
// completion.
package dashboard

import (
	"math"
	"sort"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/timeline"
)

// Defaults for Options.
const (
	DefaultDeadlineWindowDays = 30
	DefaultRecentLimit        = 10
	DefaultDeadlineLimit      = 5
	DefaultInitiativeLimit    = 6
)

// Deadline priorities by days remaining.
const (
	PriorityDanger  = "danger"  // 7 days or fewer
	PriorityWarning = "warning" // 14 days or fewer
	PriorityInfo    = "info"
)

// Options tunes Build. Zero values take the defaults above.
type Options struct {
	Projector          *timeline.Projector
	DeadlineWindowDays int
	RecentLimit        int
	DeadlineLimit      int
	InitiativeLimit    int
}

func (o Options) withDefaults() Options {
	if o.Projector == nil {
		o.Projector = timeline.NewProjector(timeline.Options{})
	}
	if o.DeadlineWindowDays <= 0 {
		o.DeadlineWindowDays = DefaultDeadlineWindowDays
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.DeadlineLimit <= 0 {
		o.DeadlineLimit = DefaultDeadlineLimit
	}
	if o.InitiativeLimit <= 0 {
		o.InitiativeLimit = DefaultInitiativeLimit
	}
	return o
}

// Input is the portfolio slice a dashboard is computed from.
type Input struct {
	Projects    []model.Project
	Members     []model.Member
	Initiatives []model.Initiative
}

// Counts are the headline project numbers.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// ColorCount is the number of projects reporting one schedule color.
type ColorCount struct {
	Color string `json:"color"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Workload summarizes team availability.
type Workload struct {
	Total                int     `json:"total"`
	Available            int     `json:"available"`
	Busy                 int     `json:"busy"`
	Overloaded           int     `json:"overloaded"`
	OnLeave              int     `json:"on_leave"`
	AvailablePercentage  float64 `json:"available_percentage"`
	BusyPercentage       float64 `json:"busy_percentage"`
	OverloadedPercentage float64 `json:"overloaded_percentage"`
}

// Deadline is a project ending soon.
type Deadline struct {
	Key           string             `json:"key"`
	Name          string             `json:"name"`
	Status        string             `json:"status"`
	End           dates.CalendarDate `json:"end"`
	DaysRemaining int                `json:"days_remaining"`
	Priority      string             `json:"priority"`
}

// InitiativeCompletion is the mean reported progress of an initiative's
// projects.
type InitiativeCompletion struct {
	Key                  string  `json:"key"`
	Name                 string  `json:"name"`
	Projects             int     `json:"projects"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Dashboard is the computed summary.
type Dashboard struct {
	Today       dates.CalendarDate     `json:"today"`
	Counts      Counts                 `json:"counts"`
	Colors      []ColorCount           `json:"colors"`
	Workload    Workload               `json:"workload"`
	Recent      []model.Project        `json:"recent"`
	Deadlines   []Deadline             `json:"deadlines"`
	Initiatives []InitiativeCompletion `json:"initiatives"`
}

// Build computes the dashboard for today. Projects whose dates do not parse
// are counted but never overdue and never listed as deadlines.
func Build(in Input, today dates.CalendarDate, opts Options) Dashboard {
	opts = opts.withDefaults()

	spans := make([]timeline.Span, len(in.Projects))
	for i, p := range in.Projects {
		spans[i] = opts.Projector.SpanOf(p.StartRaw, p.EndRaw)
	}

	return Dashboard{
		Today:       today,
		Counts:      countProjects(in.Projects, spans, today),
		Colors:      colorDistribution(in.Projects),
		Workload:    teamWorkload(in.Members),
		Recent:      recentProjects(in.Projects, opts.RecentLimit),
		Deadlines:   upcomingDeadlines(in.Projects, spans, today, opts.DeadlineWindowDays, opts.DeadlineLimit),
		Initiatives: initiativeCompletion(in.Initiatives, in.Projects, opts.InitiativeLimit),
	}
}

func countProjects(projects []model.Project, spans []timeline.Span, today dates.CalendarDate) Counts {
	c := Counts{Total: len(projects)}
	for i, p := range projects {
		switch model.NormalizeStatus(p.Status) {
		case model.StatusIncoming, model.StatusInProgress:
			c.Active++
		case model.StatusCompleted:
			c.Completed++
		}
		if isOverdue(p, spans[i], today) {
			c.Overdue++
		}
	}
	return c
}

// isOverdue counts only open work: incoming, in progress or delayed.
func isOverdue(p model.Project, span timeline.Span, today dates.CalendarDate) bool {
	switch model.NormalizeStatus(p.Status) {
	case model.StatusIncoming, model.StatusInProgress, model.StatusDelayed:
		return timeline.IsOverdue(span, p.Status, today)
	}
	return false
}

func colorDistribution(projects []model.Project) []ColorCount {
	counts := make(map[string]int, len(model.Colors))
	for _, p := range projects {
		color := p.ColorStatus
		if color == "" {
			color = model.ColorNotStarted
		}
		counts[color]++
	}
	out := make([]ColorCount, 0, len(model.Colors))
	for _, c := range model.Colors {
		out = append(out, ColorCount{Color: c, Label: model.ColorLabel(c), Count: counts[c]})
	}
	return out
}

func teamWorkload(members []model.Member) Workload {
	w := Workload{Total: len(members)}
	for _, m := range members {
		switch model.NormalizeStatus(m.Availability) {
		case model.AvailabilityAvailable:
			w.Available++
		case model.AvailabilityBusy:
			w.Busy++
		case model.AvailabilityOverloaded:
			w.Overloaded++
		case model.AvailabilityOnLeave:
			w.OnLeave++
		}
	}
	if w.Total > 0 {
		w.AvailablePercentage = percent(w.Available, w.Total)
		w.BusyPercentage = percent(w.Busy, w.Total)
		w.OverloadedPercentage = percent(w.Overloaded, w.Total)
	}
	return w
}

func recentProjects(projects []model.Project, limit int) []model.Project {
	out := make([]model.Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func upcomingDeadlines(projects []model.Project, spans []timeline.Span, today dates.CalendarDate, windowDays, limit int) []Deadline {
	if today.IsZero() {
		return nil
	}
	horizon := today.AddDays(windowDays)

	var out []Deadline
	for i, p := range projects {
		status := model.NormalizeStatus(p.Status)
		if status != model.StatusIncoming && status != model.StatusInProgress {
			continue
		}
		end := spans[i].End
		if end.IsZero() || end.Before(today) || end.After(horizon) {
			continue
		}
		days := today.DaysUntil(end)
		out = append(out, Deadline{
			Key:           p.Key,
			Name:          p.Name,
			Status:        status,
			End:           end,
			DaysRemaining: days,
			Priority:      Priority(days),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].End.Before(out[j].End)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Priority classifies a deadline by the days left.
func Priority(daysRemaining int) string {
	switch {
	case daysRemaining <= 7:
		return PriorityDanger
	case daysRemaining <= 14:
		return PriorityWarning
	default:
		return PriorityInfo
	}
}

func initiativeCompletion(initiatives []model.Initiative, projects []model.Project, limit int) []InitiativeCompletion {
	if len(initiatives) > limit {
		initiatives = initiatives[:limit]
	}
	out := make([]InitiativeCompletion, 0, len(initiatives))
	for _, in := range initiatives {
		ic := InitiativeCompletion{Key: in.Key, Name: in.Name}
		var total float64
		for _, p := range projects {
			if p.InitiativeKey == in.Key {
				ic.Projects++
				total += p.Progress
			}
		}
		if ic.Projects > 0 {
			ic.CompletionPercentage = round2(total / float64(ic.Projects))
		}
		out = append(out, ic)
	}
	return out
}

func percent(n, total int) float64 {
	return round2(float64(n) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
