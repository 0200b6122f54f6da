package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/portfolio-labs/ptrack/internal/audit"
	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/importer"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	importMapFlags []string
	importFormat   string
	importDryRun   bool
	importYes      bool
)

// ImportSummary is the JSON payload of `ptrack import`.
type ImportSummary struct {
	Source   string `json:"source"`
	Format   string `json:"format"`
	DryRun   bool   `json:"dry_run"`
	Projects int    `json:"projects"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`

	// Entity counts written by the import (nil on dry runs).
	Written *store.ImportResult `json:"written,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import projects from a spreadsheet export or portfolio file",
	Long: `Imports projects into the portfolio database.

CSV files need a header row. Columns are matched case-insensitively and the
usual spreadsheet names are understood ("Project Name", "Start Date",
"Color", "Division"...). Other headers can be mapped with --map.

YAML and JSON files describe a whole portfolio: divisions, yearly plans,
perspectives, objectives, initiatives, members, projects and monthly
progress entries.

Projects are matched by key, so re-importing a file updates projects in
place. Dates are stored exactly as written; dates that cannot be read are
reported as warnings and the project is imported anyway.

Examples:
  ptrack import projects.csv
  ptrack import projects.csv --map "Project Title=name" --map "Go Live=end"
  ptrack import portfolio.yaml --dry-run
  ptrack import export.txt --format csv --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("file not found: %s", path), "")
		}
		return handleError(ErrFileNotFound, err, "")
	}

	columns, err := parseColumnMappings(importMapFlags)
	if err != nil {
		return handleError(ErrInvalidInput, err, `Use --map "Header=field", e.g. --map "Project Title=name"`)
	}

	normalizer, err := newNormalizer()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Check [dates] in config.toml")
	}
	im, err := importer.New(importer.Options{Normalizer: normalizer, Columns: columns, Logger: logger})
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	res, err := readImport(im, path, importFormat)
	if err != nil {
		return handleErrorWithDetails(importErrorCode(err), err.Error(), "", map[string]string{"file": path, "format": importFormat})
	}
	if res.Portfolio.Empty() {
		return handleErrorMsg(ErrImportInvalid, fmt.Sprintf("nothing to import in %s", path), "")
	}

	warnings := importWarnings(res.Warnings)
	summary := ImportSummary{
		Source:   path,
		Format:   res.Format,
		DryRun:   importDryRun,
		Projects: len(res.Portfolio.Projects),
	}

	s, err := openStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "Run 'ptrack init' to create the database")
	}
	defer s.Close()
	ctx := context.Background()

	if importDryRun {
		for _, p := range res.Portfolio.Projects {
			_, err := s.GetProject(ctx, p.Key)
			switch {
			case errors.Is(err, store.ErrNotFound):
				summary.Created++
			case err != nil:
				return handleError(ErrDatabaseError, err, "")
			default:
				summary.Updated++
			}
		}
		return outputImport(summary, res.Warnings, warnings)
	}

	if len(res.Warnings) > 0 && !importYes && shouldPromptForConfirm() {
		printImportWarnings(res.Warnings)
		if !promptForConfirm(fmt.Sprintf("Import %s with %s?",
			ui.Count(summary.Projects, "project", "projects"),
			ui.Count(len(res.Warnings), "warning", "warnings"))) {
			fmt.Println(ui.Error("Import cancelled."))
			return nil
		}
		res.Warnings = nil
	}

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner(fmt.Sprintf("Importing %s", filepath.Base(path)))
		spinner.Start()
	}
	written, err := s.ImportPortfolio(ctx, res.Portfolio)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		suggestion := ""
		if errors.Is(err, store.ErrLocked) {
			suggestion = "Another import is running; try again when it finishes"
		}
		return handleError(storeErrorCode(err), err, suggestion)
	}

	summary.Created = written.Created
	summary.Updated = written.Updated
	summary.Written = written

	recordImportAudit(path, written)

	if err := saveLastImport(summary, len(warnings)); err != nil {
		logger.Warn("failed to save state", zap.Error(err))
		warnings = append(warnings, Warning{Code: WarnStateNotSaved, Message: err.Error()})
	}

	return outputImport(summary, res.Warnings, warnings)
}

func readImport(im *importer.Importer, path, format string) (*importer.Result, error) {
	if format == "" {
		return im.ReadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return im.Read(f, strings.ToLower(format))
}

// parseColumnMappings turns repeated "Header=field" flags into a map.
func parseColumnMappings(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	columns := make(map[string]string, len(flags))
	for _, m := range flags {
		header, field, ok := strings.Cut(m, "=")
		header, field = strings.TrimSpace(header), strings.TrimSpace(field)
		if !ok || header == "" || field == "" {
			return nil, fmt.Errorf("invalid column mapping %q", m)
		}
		columns[header] = field
	}
	return columns, nil
}

var importWarningCodes = map[string]string{
	importer.KindMissingDate:     WarnDateMissing,
	importer.KindUnparseableDate: WarnDateUnparseable,
	importer.KindAmbiguousDate:   WarnDateAmbiguous,
	importer.KindInvertedRange:   WarnDateInverted,
}

func importWarnings(in []importer.Warning) []Warning {
	out := make([]Warning, 0, len(in))
	for _, w := range in {
		code, ok := importWarningCodes[w.Kind]
		if !ok {
			code = WarnDataQuality
		}
		out = append(out, Warning{Code: code, Message: w.String(), Ref: w.Key, Field: w.Field, Value: w.Value})
	}
	return out
}

// newAuditRecorder returns a recorder that appends to the data directory's
// audit log and mirrors entries to the command logger. The returned func
// closes the log file.
func newAuditRecorder() (*audit.Recorder, func()) {
	c := getConfig()
	if !c.AuditEnabled() {
		return audit.NewRecorder(audit.Options{}), func() {}
	}

	recLogger, closeLog := logger, func() {}
	path := filepath.Join(getDataDir(), audit.LogFileName)
	if fl, err := audit.OpenFileLogger(path); err != nil {
		logger.Warn("audit log unavailable", zap.String("path", path), zap.Error(err))
	} else {
		recLogger = zap.New(zapcore.NewTee(fl.Core(), logger.Core()))
		closeLog = func() { _ = fl.Close() }
	}

	return audit.NewRecorder(audit.Options{
		Logger:  recLogger,
		Actor:   c.AuditActor(),
		Client:  audit.LocalClient(userAgent()),
		Enabled: true,
	}), closeLog
}

func recordImportAudit(source string, written *store.ImportResult) {
	rec, closeLog := newAuditRecorder()
	defer closeLog()
	if !rec.Enabled() {
		return
	}
	for _, ch := range written.Projects {
		if ch.Created() {
			rec.RecordCreate("project", ch.After.ID, ch.After.Name, "")
		} else {
			rec.RecordUpdate("project", ch.After.ID, audit.ProjectChanges(*ch.Before, ch.After))
		}
	}
	rec.RecordImport(source, map[string]int{
		"projects created": written.Created,
		"projects updated": written.Updated,
		"divisions":        written.Divisions,
		"plans":            written.Plans,
		"perspectives":     written.Perspectives,
		"objectives":       written.Objectives,
		"initiatives":      written.Initiatives,
		"members":          written.Members,
		"progress entries": written.Progress,
	})
}

func saveLastImport(summary ImportSummary, warnings int) error {
	path := getStatePath()
	state, err := config.LoadState(path)
	if err != nil {
		return err
	}
	source := summary.Source
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	state.LastImport = &config.ImportState{
		Source:   source,
		Format:   summary.Format,
		At:       time.Now(),
		Projects: summary.Projects,
		Created:  summary.Created,
		Updated:  summary.Updated,
		Warnings: warnings,
	}
	return config.SaveState(path, state)
}

func printImportWarnings(warnings []importer.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println(ui.Warningf("%s:", ui.Count(len(warnings), "warning", "warnings")))
	list := ui.NewList()
	for _, w := range warnings {
		list.Add(w.String())
	}
	fmt.Print(list.String())
	fmt.Println()
}

// outputImport prints the summary. printed holds warnings not yet shown on
// the terminal; envelope holds every warning for JSON output.
func outputImport(summary ImportSummary, printed []importer.Warning, envelope []Warning) error {
	if isJSONOutput() {
		outputSuccessWithWarnings(summary, envelope, &Meta{Count: summary.Projects})
		return nil
	}

	printImportWarnings(printed)
	for _, w := range envelope {
		if w.Code == WarnStateNotSaved {
			fmt.Println(ui.Warning("state not saved: " + w.Message))
		}
	}

	if summary.DryRun {
		fmt.Printf("Dry run: would import %s from %s (%d new, %d updated)\n",
			ui.Count(summary.Projects, "project", "projects"), ui.FilePath(summary.Source), summary.Created, summary.Updated)
		return nil
	}

	fmt.Println(ui.Successf("Imported %s from %s (%d new, %d updated)",
		ui.Count(summary.Projects, "project", "projects"), ui.FilePath(summary.Source), summary.Created, summary.Updated))
	if w := summary.Written; w != nil {
		var parts []string
		for _, c := range []struct {
			n                int
			singular, plural string
		}{
			{w.Initiatives, "initiative", "initiatives"},
			{w.Objectives, "objective", "objectives"},
			{w.Members, "member", "members"},
			{w.Progress, "progress entry", "progress entries"},
			{w.Divisions, "division", "divisions"},
			{w.Plans, "yearly plan", "yearly plans"},
			{w.Perspectives, "perspective", "perspectives"},
		} {
			if c.n > 0 {
				parts = append(parts, ui.Count(c.n, c.singular, c.plural))
			}
		}
		if len(parts) > 0 {
			fmt.Println(ui.Hint("  also " + strings.Join(parts, ", ")))
		}
	}
	return nil
}

func init() {
	importCmd.Flags().StringArrayVar(&importMapFlags, "map", nil, `Map a CSV header to a project field ("Header=field", repeatable)`)
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format (csv, yaml, json); default from the file extension")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Import without asking when there are warnings")
	rootCmd.AddCommand(importCmd)
}
