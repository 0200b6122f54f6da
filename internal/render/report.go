package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/portfolio-labs/ptrack/internal/dashboard"
	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/timeline"
)

// SummaryWidth is the comment summary length used in reports.
const SummaryWidth = 80

// DashboardMarkdown renders the dashboard as a markdown report.
func DashboardMarkdown(d dashboard.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio report\n\n_As of %s_\n\n", d.Today)

	b.WriteString("## Projects\n\n")
	b.WriteString("| Total | Active | Completed | Overdue |\n|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n\n", d.Counts.Total, d.Counts.Active, d.Counts.Completed, d.Counts.Overdue)

	b.WriteString("## Schedule\n\n| Color | Projects |\n|---|---:|\n")
	for _, c := range d.Colors {
		fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(c.Label), c.Count)
	}
	b.WriteByte('\n')

	w := d.Workload
	b.WriteString("## Team\n\n")
	if w.Total == 0 {
		b.WriteString("No team members recorded.\n\n")
	} else {
		fmt.Fprintf(&b, "%d members: %d available (%s), %d busy (%s), %d overloaded (%s), %d on leave.\n\n",
			w.Total,
			w.Available, percent(w.AvailablePercentage),
			w.Busy, percent(w.BusyPercentage),
			w.Overloaded, percent(w.OverloadedPercentage),
			w.OnLeave)
	}

	b.WriteString("## Upcoming deadlines\n\n")
	if len(d.Deadlines) == 0 {
		b.WriteString("Nothing due soon.\n\n")
	} else {
		b.WriteString("| Project | Status | Due | Days left | Priority |\n|---|---|---|---:|---|\n")
		for _, dl := range d.Deadlines {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
				escapeCell(dl.Name), model.StatusLabel(dl.Status), dl.End, dl.DaysRemaining, dl.Priority)
		}
		b.WriteByte('\n')
	}

	if len(d.Initiatives) > 0 {
		b.WriteString("## Initiatives\n\n| Initiative | Projects | Completion |\n|---|---:|---:|\n")
		for _, in := range d.Initiatives {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escapeCell(in.Name), in.Projects, percent(in.CompletionPercentage))
		}
		b.WriteByte('\n')
	}

	if len(d.Recent) > 0 {
		b.WriteString("## Recent projects\n\n")
		for _, p := range d.Recent {
			fmt.Fprintf(&b, "- **%s** (%s, %s)", p.Name, model.StatusLabel(p.Status), percent(p.Progress))
			if s := Summary(p.Comments, SummaryWidth); s != "" {
				fmt.Fprintf(&b, ": %s", s)
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// ProjectMarkdown renders one project as a markdown page: attributes,
// normalized schedule, comments and monthly progress history.
func ProjectMarkdown(p model.Project, span timeline.Span, progress []model.ProgressEntry, today dates.CalendarDate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	b.WriteString("| | |\n|---|---|\n")
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "| %s | %s |\n", label, escapeCell(value))
		}
	}
	row("Key", p.Key)
	row("Status", model.StatusLabel(p.Status))
	row("Schedule", model.ColorLabel(p.ColorStatus))
	row("Progress", percent(p.Progress))
	row("Developer", p.Developer)
	row("System analyst", p.SystemAnalyst)
	row("Responsible", p.ResponsiblePerson)
	row("Beneficiary division", model.DivisionLabel(p.BeneficiaryDivision))
	row("Objective", p.ObjectiveKey)
	row("Initiative", p.InitiativeKey)
	row("Plan", p.PlanName)
	row("Performance measure", p.PerformanceMeasure)
	b.WriteByte('\n')

	b.WriteString("## Schedule\n\n")
	fmt.Fprintf(&b, "- Start: %s\n", dateLine(p.StartRaw, span.Start))
	fmt.Fprintf(&b, "- End: %s\n", dateLine(p.EndRaw, span.End))
	if span.Valid() {
		fmt.Fprintf(&b, "- Duration: %d days\n", timeline.DurationDays(span))
		fmt.Fprintf(&b, "- Elapsed: %s\n", percent(timeline.ElapsedPercentage(span, today)))
		if days, ok := timeline.DaysRemaining(span, today); ok && days >= 0 && p.Status != model.StatusCompleted {
			fmt.Fprintf(&b, "- Days remaining: %d\n", days)
		}
		if timeline.IsOverdue(span, p.Status, today) {
			b.WriteString("- **Overdue**\n")
		}
	}
	b.WriteByte('\n')

	if strings.TrimSpace(p.Comments) != "" {
		b.WriteString("## Comments\n\n")
		b.WriteString(strings.TrimSpace(p.Comments))
		b.WriteString("\n\n")
	}

	if len(progress) > 0 {
		b.WriteString("## Progress history\n\n| Month | Color | Notes |\n|---|---|---|\n")
		for _, e := range progress {
			fmt.Fprintf(&b, "| %s %d | %s | %s |\n", model.MonthAbbrev(e.Month), e.Year, model.ColorLabel(e.Color), escapeCell(e.Notes))
		}
	}

	return b.String()
}

func dateLine(raw string, d dates.CalendarDate) string {
	switch {
	case raw == "":
		return "_not set_"
	case d.IsZero():
		return fmt.Sprintf("%s _(unparseable)_", raw)
	case raw == d.String():
		return raw
	}
	return fmt.Sprintf("%s (%s)", d, raw)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
