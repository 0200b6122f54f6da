package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/lastresults"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var memberCmd = &cobra.Command{
	Use:     "member",
	Aliases: []string{"members"},
	Short:   "List team members",
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members with role and availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
		}
		defer s.Close()

		members, err := s.ListMembers(context.Background())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		warnings := saveLastResults(lastresults.SourceMembers, "", toResults(members))

		if isJSONOutput() {
			outputSuccessWithWarnings(members, warnings, &Meta{Count: len(members), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}
		if len(members) == 0 {
			fmt.Println(ui.Hint("No team members recorded."))
			return nil
		}

		tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.MemberLayout)
		nameWidth := tbl.ContentWidth("name")
		for i, m := range members {
			name := m.GetContent()
			if m.FullName != "" {
				name += " (" + m.Username + ")"
			}
			tbl.AddRow(ui.ResultRow{
				Num: i + 1,
				Cells: []string{
					ui.FormatRowNum(i+1, len(members)),
					ui.TruncateWithEllipsis(name, nameWidth),
					availabilityText(m.Availability),
					memberMeta(m),
				},
			})
		}
		fmt.Println(tbl.Render())
		return nil
	},
}

func availabilityText(a string) string {
	switch a {
	case model.AvailabilityAvailable:
		return ui.ScheduleStyle(model.ColorGreen).Render("available")
	case model.AvailabilityBusy:
		return ui.ScheduleStyle(model.ColorAmber).Render("busy")
	case model.AvailabilityOverloaded:
		return ui.ScheduleStyle(model.ColorRed).Render("overloaded")
	case model.AvailabilityOnLeave:
		return ui.Muted.Render("on leave")
	}
	return ui.Muted.Render("-")
}

func memberMeta(m model.Member) string {
	parts := []string{m.Role.String()}
	if m.Specialization != "" {
		parts = append(parts, m.Specialization)
	}
	parts = append(parts, ui.Count(m.CurrentProjects, "project", "projects"))
	return strings.Join(parts, " · ")
}

var initiativeCmd = &cobra.Command{
	Use:     "initiative",
	Aliases: []string{"initiatives"},
	Short:   "List strategic initiatives",
}

var initiativeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List initiatives with their objective and dates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
		}
		defer s.Close()

		ctx := context.Background()
		initiatives, err := s.ListInitiatives(ctx)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		objectives, err := s.ListObjectives(ctx)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		warnings := saveLastResults(lastresults.SourceInitiatives, "", toResults(initiatives))

		if isJSONOutput() {
			outputSuccessWithWarnings(initiatives, warnings, &Meta{Count: len(initiatives), QueryTimeMs: time.Since(start).Milliseconds()})
			return nil
		}
		if len(initiatives) == 0 {
			fmt.Println(ui.Hint("No initiatives recorded."))
			return nil
		}

		objectiveNames := make(map[string]string, len(objectives))
		for _, o := range objectives {
			objectiveNames[o.Key] = o.Name
		}

		tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.InitiativeLayout)
		nameWidth := tbl.ContentWidth("name")
		metaWidth := tbl.ContentWidth("meta")
		for i, in := range initiatives {
			objective := in.ObjectiveKey
			if name, ok := objectiveNames[objective]; ok {
				objective = name
			}
			tbl.AddRow(ui.ResultRow{
				Num: i + 1,
				Cells: []string{
					ui.FormatRowNum(i+1, len(initiatives)),
					ui.TruncateWithEllipsis(in.Name, nameWidth),
					ui.TruncateWithEllipsis(objective, metaWidth),
					rawRange(in.StartRaw, in.EndRaw),
				},
			})
		}
		fmt.Println(tbl.Render())
		fmt.Println(ui.Hint("Use 'ptrack project list --initiative <key>' for an initiative's projects."))
		return nil
	},
}

func init() {
	memberCmd.AddCommand(memberListCmd)
	initiativeCmd.AddCommand(initiativeListCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(initiativeCmd)
}
