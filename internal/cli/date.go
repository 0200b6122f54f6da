package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/render"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	dateReferenceYear int
	dateSpan          bool
	dateSpanYear      int
	dateSpanStatus    string
)

// DateResult is one normalized input of `ptrack date`.
type DateResult struct {
	Input string `json:"input"`
	dates.Resolution
}

// SpanResult is the JSON payload of `ptrack date --span`.
type SpanResult struct {
	Start        DateResult             `json:"start"`
	End          DateResult             `json:"end"`
	Year         int                    `json:"year"`
	DurationDays int                    `json:"duration_days"`
	Months       [12]timeline.SpanLayout `json:"months"`
}

var dateCmd = &cobra.Command{
	Use:   "date <text>...",
	Short: "Show how date text is normalized",
	Long: `Normalizes each argument the way project dates are read and shows
the calendar date and the rule that matched.

With --span, the two arguments are a start and an end date and the command
prints the month-by-month timeline layout for a year.

Examples:
  ptrack date Jan-25 "15/03/2025" "Q3 2025" TBD
  ptrack date "Mar 14" --reference-year 2025
  ptrack date --span Jan-25 2025-03-31 --year 2025`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDate,
}

func runDate(cmd *cobra.Command, args []string) error {
	opts := getConfig().NormalizerOptions(logger)
	if cmd.Flags().Changed("reference-year") {
		opts.ReferenceYear = dateReferenceYear
	}
	normalizer, err := dates.NewNormalizer(opts)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check [dates] in config.toml")
	}

	if dateSpan {
		return runDateSpan(normalizer, args)
	}

	results := make([]DateResult, len(args))
	for i, arg := range args {
		results[i] = DateResult{Input: arg, Resolution: normalizer.Resolve(arg)}
	}

	if isJSONOutput() {
		outputSuccess(results, &Meta{Count: len(results)})
		return nil
	}

	tbl := ui.NewTable(3)
	for _, r := range results {
		tbl.AddRow(strconv.Quote(r.Input), resolutionDate(r.Resolution), ruleText(r.Resolution))
	}
	fmt.Print(tbl.String())
	return nil
}

func runDateSpan(normalizer *dates.Normalizer, args []string) error {
	if len(args) != 2 {
		return handleErrorMsg(ErrInvalidInput, "--span needs exactly two dates: start and end", "")
	}
	year := dateSpanYear
	if year == 0 {
		year = today().Year()
	}
	status, err := model.ValidateStatus(dateSpanStatus)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	projector := timeline.NewProjector(timeline.Options{
		Normalizer:     normalizer,
		ActiveStatuses: getConfig().ActiveStatuses(),
	})
	span := projector.SpanOf(args[0], args[1])
	result := SpanResult{
		Start:        DateResult{Input: args[0], Resolution: normalizer.Resolve(args[0])},
		End:          DateResult{Input: args[1], Resolution: normalizer.Resolve(args[1])},
		Year:         year,
		DurationDays: timeline.DurationDays(span),
		Months:       projector.YearRow(span, status, year, today()),
	}

	if isJSONOutput() {
		outputSuccess(result, nil)
		return nil
	}

	tbl := ui.NewTable(3)
	tbl.AddRow(ui.Hint("start"), resolutionDate(result.Start.Resolution), ruleText(result.Start.Resolution))
	tbl.AddRow(ui.Hint("end"), resolutionDate(result.End.Resolution), ruleText(result.End.Resolution))
	fmt.Print(tbl.String())
	if !span.Valid() {
		fmt.Println(ui.Hint("Both dates must resolve to draw the span."))
		return nil
	}
	fmt.Printf("%s %s\n\n", ui.Hint("duration"), ui.Count(result.DurationDays, "day", "days"))

	months := ui.NewTable(4)
	for i, l := range result.Months {
		if !l.IsActive {
			continue
		}
		m := time.Month(i + 1)
		detail := fmt.Sprintf("width %s  margin %s", percentText(l.WidthPercentage), percentText(l.MarginLeftPercentage))
		if l.ProgressPercentage != nil {
			detail += "  progress " + percentText(*l.ProgressPercentage)
		}
		months.AddRow(model.MonthAbbrev(m), "│"+ui.Accent.Render(render.Cell(l, render.MaxCellWidth))+"│", ui.Hint(detail), edgeText(l))
	}
	if months.String() == "" {
		fmt.Println(ui.Hint(fmt.Sprintf("Not active in %d.", year)))
		return nil
	}
	fmt.Print(months.String())
	return nil
}

func resolutionDate(r dates.Resolution) string {
	if !r.OK {
		return ui.Muted.Render("-")
	}
	return ui.Accent.Render(r.Date.String())
}

func ruleText(r dates.Resolution) string {
	switch {
	case r.Format != "":
		return ui.Hint(string(r.Rule) + " " + r.Format)
	case r.Rule == dates.RuleHeuristic:
		return ui.ScheduleStyle(model.ColorAmber).Render(string(r.Rule))
	}
	return ui.Hint(string(r.Rule))
}

func edgeText(l timeline.SpanLayout) string {
	switch {
	case l.IsStartMonth && l.IsEndMonth:
		return ui.Hint("start, end")
	case l.IsStartMonth:
		return ui.Hint("start")
	case l.IsEndMonth:
		return ui.Hint("end")
	}
	return ""
}

func init() {
	dateCmd.Flags().IntVar(&dateReferenceYear, "reference-year", 0, "Year for dates written without one (overrides config)")
	dateCmd.Flags().BoolVar(&dateSpan, "span", false, "Treat the two arguments as a start and end date and show the year layout")
	dateCmd.Flags().IntVar(&dateSpanYear, "year", 0, "Year to lay the span out in (default: current year)")
	dateCmd.Flags().StringVar(&dateSpanStatus, "status", "in_progress", "Project status used for the progress marker")
	rootCmd.AddCommand(dateCmd)
}
