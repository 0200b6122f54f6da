package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/atomicfile"
	"github.com/portfolio-labs/ptrack/internal/dashboard"
	"github.com/portfolio-labs/ptrack/internal/lastresults"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/render"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	reportRaw       bool
	reportOutput    string
	deadlinesWithin int
	deadlinesLimit  int
)

var errInvalidConfig = errors.New("invalid configuration")

// loadDashboard computes the dashboard over everything in the database.
// It also returns the projects by key for follow-up lookups.
func loadDashboard(ctx context.Context, opts dashboard.Options) (dashboard.Dashboard, map[string]model.Project, error) {
	projector, err := newProjector()
	if err != nil {
		return dashboard.Dashboard{}, nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	opts.Projector = projector
	if opts.DeadlineWindowDays == 0 {
		opts.DeadlineWindowDays = getConfig().DeadlineWindowDays()
	}

	s, err := openStore()
	if err != nil {
		return dashboard.Dashboard{}, nil, err
	}
	defer s.Close()

	var in dashboard.Input
	if in.Projects, err = s.ListProjects(ctx, store.ProjectFilter{}); err != nil {
		return dashboard.Dashboard{}, nil, err
	}
	if in.Members, err = s.ListMembers(ctx); err != nil {
		return dashboard.Dashboard{}, nil, err
	}
	if in.Initiatives, err = s.ListInitiatives(ctx); err != nil {
		return dashboard.Dashboard{}, nil, err
	}

	byKey := make(map[string]model.Project, len(in.Projects))
	for _, p := range in.Projects {
		byKey[p.Key] = p
	}
	return dashboard.Build(in, today(), opts), byKey, nil
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show portfolio health at a glance",
	Long: `Shows project counts, schedule colors, team workload and the
deadlines coming up within the configured window.

Examples:
  ptrack dashboard
  ptrack dashboard --today 2025-06-30
  ptrack dashboard --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		d, _, err := loadDashboard(context.Background(), dashboard.Options{})
		if err != nil {
			return handleError(dashboardErrorCode(err), err, "")
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(d, &Meta{QueryTimeMs: elapsed})
			return nil
		}
		printDashboard(d)
		return nil
	},
}

func printDashboard(d dashboard.Dashboard) {
	fmt.Printf("%s %s\n\n", ui.Header("Portfolio"), ui.Hint("as of "+d.Today.String()))

	counts := ui.NewTable(4)
	counts.SetPadding(4)
	counts.AddRow(ui.Hint("Total"), ui.Hint("Active"), ui.Hint("Completed"), ui.Hint("Overdue"))
	overdue := strconv.Itoa(d.Counts.Overdue)
	if d.Counts.Overdue > 0 {
		overdue = ui.ScheduleStyle(model.ColorRed).Render(overdue)
	}
	counts.AddRow(ui.AccentBold.Render(strconv.Itoa(d.Counts.Total)), strconv.Itoa(d.Counts.Active), strconv.Itoa(d.Counts.Completed), overdue)
	fmt.Print(counts.String())
	fmt.Println()

	colors := ui.NewTable(2)
	for _, c := range d.Colors {
		colors.AddRow(ui.ScheduleStyle(c.Color).Render("■ "+c.Label), strconv.Itoa(c.Count))
	}
	fmt.Println(ui.Header("Schedule"))
	fmt.Print(colors.String())
	fmt.Println()

	fmt.Println(ui.Header("Team"))
	if w := d.Workload; w.Total == 0 {
		fmt.Println(ui.Hint("No team members recorded."))
	} else {
		team := ui.NewTable(3)
		team.AddRow(ui.Hint("Available"), strconv.Itoa(w.Available), ui.Hint(percentText(w.AvailablePercentage)))
		team.AddRow(ui.Hint("Busy"), strconv.Itoa(w.Busy), ui.Hint(percentText(w.BusyPercentage)))
		team.AddRow(ui.Hint("Overloaded"), strconv.Itoa(w.Overloaded), ui.Hint(percentText(w.OverloadedPercentage)))
		team.AddRow(ui.Hint("On leave"), strconv.Itoa(w.OnLeave), "")
		fmt.Print(team.String())
	}
	fmt.Println()

	fmt.Println(ui.Header("Upcoming deadlines"))
	if len(d.Deadlines) == 0 {
		fmt.Println(ui.Hint("Nothing due soon."))
		return
	}
	fmt.Print(deadlineTable(d.Deadlines).String())
}

func deadlineTable(deadlines []dashboard.Deadline) *ui.Table {
	tbl := ui.NewTable(4)
	for i, dl := range deadlines {
		tbl.AddRow(
			ui.Hint(ui.FormatRowNum(i+1, len(deadlines))),
			dl.Name,
			dl.End.String(),
			priorityStyle(dl.Priority).Render(daysLeftText(dl.DaysRemaining)),
		)
	}
	return tbl
}

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case dashboard.PriorityDanger:
		return ui.ScheduleStyle(model.ColorRed)
	case dashboard.PriorityWarning:
		return ui.ScheduleStyle(model.ColorAmber)
	}
	return ui.Muted
}

func daysLeftText(days int) string {
	switch days {
	case 0:
		return "due today"
	case 1:
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", days)
}

func percentText(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the portfolio report",
	Long: `Renders the dashboard as a markdown report: counts, schedule colors,
team workload, upcoming deadlines, initiative completion and recent
projects with a summary of their comments.

Examples:
  ptrack report
  ptrack report --raw > report.md
  ptrack report --output report.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := loadDashboard(context.Background(), dashboard.Options{})
		if err != nil {
			return handleError(dashboardErrorCode(err), err, "")
		}
		md := render.DashboardMarkdown(d)

		if reportOutput != "" {
			if err := atomicfile.WriteFile(reportOutput, []byte(md), 0o644); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"path": reportOutput, "bytes": len(md)}, nil)
				return nil
			}
			fmt.Println(ui.Successf("Wrote %s", ui.FilePath(reportOutput)))
			return nil
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"markdown": md, "dashboard": d}, nil)
			return nil
		}
		if reportRaw {
			fmt.Print(md)
			return nil
		}
		out, err := ui.RenderMarkdownFor(ui.NewDisplayContext(), md)
		if err != nil {
			return handleError(ErrInternal, err, "Use --raw to print markdown")
		}
		fmt.Print(out)
		return nil
	},
}

var deadlinesCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "List projects due soon",
	Long: `Lists open projects whose end date falls within the deadline window,
soonest first. Rows are numbered for 'ptrack project show <n>'.

Examples:
  ptrack deadlines
  ptrack deadlines --within 14
  ptrack deadlines --today 2025-06-01 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deadlinesWithin < 0 {
			return handleErrorMsg(ErrInvalidInput, "--within must not be negative", "")
		}
		d, byKey, err := loadDashboard(context.Background(), dashboard.Options{
			DeadlineWindowDays: deadlinesWithin,
			DeadlineLimit:      deadlinesLimit,
		})
		if err != nil {
			return handleError(dashboardErrorCode(err), err, "")
		}

		projects := make([]model.Project, 0, len(d.Deadlines))
		for _, dl := range d.Deadlines {
			projects = append(projects, byKey[dl.Key])
		}
		warnings := saveLastResults(lastresults.SourceDeadlines, "", toResults(projects))

		if isJSONOutput() {
			outputSuccessWithWarnings(d.Deadlines, warnings, &Meta{Count: len(d.Deadlines)})
			return nil
		}
		if len(d.Deadlines) == 0 {
			fmt.Println(ui.Hint("Nothing due soon."))
			return nil
		}
		fmt.Print(deadlineTable(d.Deadlines).String())
		return nil
	},
}

// dashboardErrorCode maps loadDashboard failures onto stable codes.
func dashboardErrorCode(err error) string {
	if errors.Is(err, errInvalidConfig) {
		return ErrConfigInvalid
	}
	return storeErrorCode(err)
}

func init() {
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print markdown instead of rendering it")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the markdown report to a file")
	deadlinesCmd.Flags().IntVar(&deadlinesWithin, "within", 0, "Days ahead to look (default from config)")
	deadlinesCmd.Flags().IntVar(&deadlinesLimit, "limit", 20, "Maximum number of deadlines")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(deadlinesCmd)
}
