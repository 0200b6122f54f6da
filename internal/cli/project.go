package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/lastresults"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/render"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	projectListStatuses   statusListValue
	projectListInitiative string
	projectListLimit      int
	projectShowRaw        bool
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "List and inspect projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List projects, newest first",
	Long: `Lists projects, newest first. The optional search matches project
name, developer, system analyst and responsible person.

Rows are numbered; 'ptrack project show <n>' opens row n of the last list.

Examples:
  ptrack project list
  ptrack project list billing
  ptrack project list --status in_progress,delayed
  ptrack project list --initiative mobile-first --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectList,
}

func runProjectList(cmd *cobra.Command, args []string) error {
	start := time.Now()
	filter := store.ProjectFilter{
		Statuses:   projectListStatuses.statuses,
		Initiative: strings.TrimSpace(projectListInitiative),
		Limit:      projectListLimit,
	}
	if len(args) == 1 {
		filter.Search = args[0]
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
	}
	defer s.Close()

	projects, err := s.ListProjects(context.Background(), filter)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	warnings := saveLastResults(lastresults.SourceProjects, filter.Search, toResults(projects))
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccessWithWarnings(projects, warnings, &Meta{Count: len(projects), QueryTimeMs: elapsed})
		return nil
	}

	if len(projects) == 0 {
		fmt.Println(ui.Hint("No projects found."))
		return nil
	}

	tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.ProjectLayout)
	nameWidth := tbl.ContentWidth("name")
	datesWidth := tbl.ContentWidth("dates")
	summaryWidth := tbl.ContentWidth("meta")
	for i, p := range projects {
		tbl.AddRow(ui.ResultRow{
			Num: i + 1,
			Cells: []string{
				ui.FormatRowNum(i+1, len(projects)),
				ui.TruncateWithEllipsis(p.Name, nameWidth),
				ui.ScheduleStyle(p.ColorStatus).Render(model.StatusLabel(p.Status)),
				strconv.FormatFloat(p.Progress, 'f', -1, 64) + "%",
				ui.TruncateWithEllipsis(rawRange(p.StartRaw, p.EndRaw), datesWidth),
				render.Summary(p.Comments, summaryWidth),
			},
		})
	}
	fmt.Println(tbl.Render())
	fmt.Println(ui.Hint(fmt.Sprintf("%s. Use 'ptrack project show <n>' for details.", ui.Count(len(projects), "project", "projects"))))
	return nil
}

func rawRange(start, end string) string {
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	return start + " → " + end
}

// ProjectDetail is the JSON payload of `ptrack project show`.
type ProjectDetail struct {
	model.Project
	Schedule ProjectSchedule       `json:"schedule"`
	History  []model.ProgressEntry `json:"progress_history"`
}

// ProjectSchedule is a project's normalized dates and derived metrics.
type ProjectSchedule struct {
	Start             dates.Resolution `json:"start"`
	End               dates.Resolution `json:"end"`
	DurationDays      int              `json:"duration_days"`
	ElapsedPercentage float64          `json:"elapsed_percentage"`
	DaysRemaining     *int             `json:"days_remaining,omitempty"`
	Overdue           bool             `json:"overdue"`
	MonthsActive      map[int][]int    `json:"months_active,omitempty"`
}

var projectShowCmd = &cobra.Command{
	Use:   "show <key|n>",
	Short: "Show a project with its normalized schedule",
	Long: `Shows a project's attributes, its schedule as normalized from the
raw dates, comments and monthly progress history.

The argument is a project key, an ID, or a row number from the last
'ptrack project list' or 'ptrack deadlines'.

Examples:
  ptrack project show billing-revamp
  ptrack project show 3
  ptrack project show billing-revamp --raw > billing.md`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectShow,
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
	}
	defer s.Close()
	ctx := context.Background()

	p, err := resolveProject(ctx, s, args[0])
	if err != nil {
		return handleError(projectLookupErrorCode(err), err, "Run 'ptrack project list' to see project keys")
	}
	history, err := s.ListProgress(ctx, p.ID)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	normalizer, err := newNormalizer()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check [dates] in config.toml")
	}
	projector, err := newProjector()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	span := projector.SpanOf(p.StartRaw, p.EndRaw)
	now := today()

	if isJSONOutput() {
		outputSuccess(ProjectDetail{
			Project:  p,
			Schedule: projectSchedule(normalizer, span, p, now),
			History:  history,
		}, nil)
		return nil
	}

	md := render.ProjectMarkdown(p, span, history, now)
	if projectShowRaw {
		fmt.Print(md)
		return nil
	}
	out, err := ui.RenderMarkdownFor(ui.NewDisplayContext(), md)
	if err != nil {
		return handleError(ErrInternal, err, "Use --raw to print markdown")
	}
	fmt.Print(out)
	return nil
}

func projectSchedule(n *dates.Normalizer, span timeline.Span, p model.Project, now dates.CalendarDate) ProjectSchedule {
	sched := ProjectSchedule{
		Start:             n.Resolve(p.StartRaw),
		End:               n.Resolve(p.EndRaw),
		DurationDays:      timeline.DurationDays(span),
		ElapsedPercentage: timeline.ElapsedPercentage(span, now),
		Overdue:           timeline.IsOverdue(span, p.Status, now),
	}
	if days, ok := timeline.DaysRemaining(span, now); ok {
		sched.DaysRemaining = &days
	}
	if span.Valid() && !span.Inverted() {
		sched.MonthsActive = make(map[int][]int)
		for y := span.Start.Year(); y <= span.End.Year(); y++ {
			for _, m := range timeline.MonthsActive(span, y) {
				sched.MonthsActive[y] = append(sched.MonthsActive[y], int(m))
			}
		}
	}
	return sched
}

func init() {
	projectListCmd.Flags().Var(&projectListStatuses, "status", "Only these statuses (comma-separated or repeated)")
	projectListCmd.Flags().StringVar(&projectListInitiative, "initiative", "", "Only projects under this initiative key")
	projectListCmd.Flags().IntVar(&projectListLimit, "limit", 0, "Maximum number of projects (0 = all)")
	projectShowCmd.Flags().BoolVar(&projectShowRaw, "raw", false, "Print markdown instead of rendering it")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}
