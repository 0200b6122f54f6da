package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/render"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	timelineStatuses   statusListValue
	timelineInitiative string
	timelineAll        bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [year]",
	Short: "Draw the year timeline of projects",
	Long: `Draws every project as a bar across the twelve months of a year.

Each month cell is filled for the part of the month the project covers.
Projects in an active status get a marker in the current month placed at
the share of the whole schedule that has elapsed (a project halfway
through its dates shows the marker mid-cell). Projects whose dates cannot
be read are listed without bars.

By default only projects active at some point in the year (or with
unreadable dates) are shown; --all lists every project.

Examples:
  ptrack timeline
  ptrack timeline 2024
  ptrack timeline --status in_progress --today 2025-06-15
  ptrack timeline --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimeline,
}

func runTimeline(cmd *cobra.Command, args []string) error {
	start := time.Now()
	now := today()
	year := now.Year()
	if len(args) == 1 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1 || y > 9999 {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid year %q", args[0]), "Use a four-digit year, e.g. 2025")
		}
		year = y
	}

	projector, err := newProjector()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check [dates] and [timeline] in config.toml")
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
	}
	defer s.Close()

	ctx := context.Background()
	projects, err := s.ListProjects(ctx, store.ProjectFilter{
		Statuses:   timelineStatuses.statuses,
		Initiative: timelineInitiative,
	})
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	board, err := projector.Board(ctx, timelineRows(projects), year, now)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if !timelineAll {
		board.Rows = rowsInYear(board.Rows)
	}
	sortByStart(board.Rows)
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccess(board, &Meta{Count: len(board.Rows), QueryTimeMs: elapsed})
		return nil
	}

	if len(board.Rows) == 0 {
		fmt.Println(ui.Hint(fmt.Sprintf("No projects on the %d timeline.", year)))
		return nil
	}
	fmt.Print(render.Timeline(board, ui.NewDisplayContext().TermWidth))
	return nil
}

func timelineRows(projects []model.Project) []timeline.Row {
	rows := make([]timeline.Row, len(projects))
	for i, p := range projects {
		rows[i] = timeline.Row{
			ID:       p.Key,
			Label:    p.Name,
			Status:   p.Status,
			Color:    p.ColorStatus,
			RawStart: p.StartRaw,
			RawEnd:   p.EndRaw,
		}
	}
	return rows
}

// sortByStart orders rows by normalized start date, unresolved rows last.
func sortByStart(rows []timeline.BoardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Span.Start, rows[j].Span.Start
		switch {
		case a.IsZero() || b.IsZero():
			return !a.IsZero() && b.IsZero()
		case !a.Equal(b):
			return a.Before(b)
		}
		return rows[i].Label < rows[j].Label
	})
}

func rowsInYear(rows []timeline.BoardRow) []timeline.BoardRow {
	out := rows[:0]
	for _, r := range rows {
		if !r.Resolved {
			out = append(out, r)
			continue
		}
		for _, m := range r.Months {
			if m.IsActive {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func init() {
	timelineCmd.Flags().Var(&timelineStatuses, "status", "Only these statuses (comma-separated or repeated)")
	timelineCmd.Flags().StringVar(&timelineInitiative, "initiative", "", "Only projects under this initiative key")
	timelineCmd.Flags().BoolVar(&timelineAll, "all", false, "Include projects not active in the year")
	rootCmd.AddCommand(timelineCmd)
}
