package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	statePath    string
	configExists bool
}

func loadGlobalConfigContext() (*globalConfigContext, error) {
	path := config.ResolveConfigPath(configPath)
	_, statErr := os.Stat(path)

	loaded, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	return &globalConfigContext{
		cfg:          loaded,
		configPath:   path,
		statePath:    config.ResolveStatePath(statePathFlag, path, loaded),
		configExists: statErr == nil,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	patterns := make([]string, 0, len(ctx.cfg.Dates.Formats))
	for _, f := range ctx.cfg.Dates.Formats {
		patterns = append(patterns, f.Pattern)
	}

	return map[string]interface{}{
		"config_path": ctx.configPath,
		"state_path":  ctx.statePath,
		"exists":      ctx.configExists,
		"data_dir":    ctx.cfg.GetDataDir(),
		"dates": map[string]interface{}{
			"reference_year": ctx.cfg.Dates.ReferenceYear,
			"formats":        patterns,
		},
		"timeline": map[string]interface{}{
			"active_statuses":      effectiveActiveStatuses(ctx.cfg),
			"deadline_window_days": ctx.cfg.DeadlineWindowDays(),
		},
		"audit": map[string]interface{}{
			"enabled": ctx.cfg.AuditEnabled(),
			"actor":   ctx.cfg.AuditActor(),
		},
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
	}
}

func effectiveActiveStatuses(c *config.Config) []string {
	if statuses := c.ActiveStatuses(); len(statuses) > 0 {
		return statuses
	}
	return timeline.DefaultActiveStatuses
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the ptrack configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Fix the file or move it aside and run 'ptrack config init'")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Println(ui.Warningf("Config file does not exist: %s", ctx.configPath))
		fmt.Println(ui.Hint("Run 'ptrack config init' to create it. Showing defaults."))
		fmt.Println()
	}

	c := ctx.cfg
	tbl := ui.NewTable(2)
	tbl.AddRow(ui.Hint("config"), ui.FilePath(ctx.configPath))
	tbl.AddRow(ui.Hint("state"), ui.FilePath(ctx.statePath))
	tbl.AddRow(ui.Hint("data_dir"), ui.FilePath(c.GetDataDir()))

	year := "unset (dates without a year stay unparsed)"
	if c.Dates.ReferenceYear > 0 {
		year = strconv.Itoa(c.Dates.ReferenceYear)
	}
	tbl.AddRow(ui.Hint("dates.reference_year"), year)
	if len(c.Dates.Formats) > 0 {
		for i, f := range c.Dates.Formats {
			label := ""
			if i == 0 {
				label = "dates.formats"
			}
			line := f.Pattern
			if f.Meaning != "" {
				line += ui.Hint("  " + f.Meaning)
			}
			tbl.AddRow(ui.Hint(label), line)
		}
	} else {
		tbl.AddRow(ui.Hint("dates.formats"), "built-in")
	}

	tbl.AddRow(ui.Hint("timeline.active_statuses"), strings.Join(effectiveActiveStatuses(c), ", "))
	tbl.AddRow(ui.Hint("timeline.deadline_window_days"), strconv.Itoa(c.DeadlineWindowDays()))
	tbl.AddRow(ui.Hint("audit.enabled"), strconv.FormatBool(c.AuditEnabled()))
	tbl.AddRow(ui.Hint("audit.actor"), c.AuditActor())
	if v := strings.TrimSpace(c.UI.Accent); v != "" {
		tbl.AddRow(ui.Hint("ui.accent"), v)
	}
	if v := strings.TrimSpace(c.UI.CodeTheme); v != "" {
		tbl.AddRow(ui.Hint("ui.code_theme"), v)
	}
	fmt.Print(tbl.String())
	return nil
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.CreateDefault(configPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.Successf("Created %s", ui.FilePath(path)))
		} else {
			fmt.Printf("Config already exists: %s\n", ui.FilePath(path))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Set configuration values",
	Long: `Sets one or more configuration values and saves the file.

An empty value removes the setting.

Keys:
  data_dir, state_file,
  dates.reference_year,
  timeline.active_statuses (comma-separated), timeline.deadline_window_days,
  audit.enabled, audit.actor,
  ui.accent, ui.code_theme

Examples:
  ptrack config set dates.reference_year=2025
  ptrack config set ui.accent=39 audit.actor=grace
  ptrack config set ui.accent=`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	changed := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("expected key=value, got %q", arg), "")
		}
		key = strings.TrimSpace(key)
		if err := applyConfigValue(ctx.cfg, key, strings.TrimSpace(value)); err != nil {
			return handleError(ErrInvalidInput, err, "Run 'ptrack config set --help' for the list of keys")
		}
		changed = append(changed, key)
	}

	if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	sort.Strings(changed)

	if isJSONOutput() {
		data := configData(ctx)
		data["changed"] = changed
		outputSuccess(data, nil)
		return nil
	}
	fmt.Println(ui.Successf("Updated %s in %s", strings.Join(changed, ", "), ui.FilePath(ctx.configPath)))
	return nil
}

func applyConfigValue(c *config.Config, key, value string) error {
	atoi := func() (int, error) {
		if value == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: expected a number, got %q", key, value)
		}
		return n, nil
	}

	switch key {
	case "data_dir":
		c.DataDir = value
	case "state_file":
		c.StateFile = value
	case "dates.reference_year":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.Dates.ReferenceYear = n
	case "timeline.active_statuses":
		c.Timeline.ActiveStatuses = nil
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Timeline.ActiveStatuses = append(c.Timeline.ActiveStatuses, s)
			}
		}
	case "timeline.deadline_window_days":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.Timeline.DeadlineWindowDays = n
	case "audit.enabled":
		if value == "" {
			c.Audit.Enabled = nil
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
		c.Audit.Enabled = &b
	case "audit.actor":
		c.Audit.Actor = value
	case "ui.accent":
		c.UI.Accent = value
	case "ui.code_theme":
		c.UI.CodeTheme = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
