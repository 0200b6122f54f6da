package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

// StatsResult is the JSON payload of `ptrack stats`.
type StatsResult struct {
	store.Stats
	Database   string              `json:"database"`
	LastImport *config.ImportState `json:"last_import,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long: `Displays row counts for every entity in the portfolio database and
a summary of the last import.

Examples:
  ptrack stats
  ptrack stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		s, err := openStore()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
		}
		defer s.Close()

		stats, err := s.Stats(context.Background())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		result := StatsResult{Stats: stats, Database: store.Path(getDataDir())}
		if state, err := config.LoadState(getStatePath()); err == nil {
			result.LastImport = state.LastImport
		} else {
			logger.Warn("failed to load state", zap.Error(err))
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(result, &Meta{QueryTimeMs: elapsed})
			return nil
		}

		fmt.Println(ui.Header("Portfolio statistics"))
		tbl := ui.NewTable(2)
		for _, row := range []struct {
			label string
			n     int
		}{
			{"Projects", stats.Projects},
			{"Progress entries", stats.Progress},
			{"Initiatives", stats.Initiatives},
			{"Objectives", stats.Objectives},
			{"Perspectives", stats.Perspectives},
			{"Yearly plans", stats.Plans},
			{"Divisions", stats.Divisions},
			{"Members", stats.Members},
		} {
			tbl.AddRow(ui.Hint(row.label), ui.Accent.Render(strconv.Itoa(row.n)))
		}
		tbl.AddRow(ui.Hint("Database"), ui.FilePath(result.Database))
		fmt.Print(tbl.String())

		if li := result.LastImport; li != nil {
			fmt.Println()
			fmt.Printf("Last import: %s (%s) at %s\n", ui.FilePath(li.Source), li.Format, li.At.Local().Format("2006-01-02 15:04"))
			fmt.Printf("  %d projects: %d created, %d updated, %s\n",
				li.Projects, li.Created, li.Updated, ui.Count(li.Warnings, "warning", "warnings"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
