package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/timeline"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var (
	// Global flags
	configPath    string
	statePathFlag string
	dataDirFlag   string
	verbose       bool
	todayFlag     dateValue

	// Resolved values
	resolvedConfigPath string
	resolvedStatePath  string
	cfg                *config.Config
	logger             = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ptrack",
	Short: "ptrack - project portfolio tracking from the terminal",
	Long: `ptrack tracks a portfolio of projects, initiatives and team members
in a local SQLite database.

Project dates are kept exactly as they were entered ("Jan-25", "15/03/2025",
"March 14, 2025") and normalized on the fly, so timelines, deadlines and reports
work even when the source spreadsheet was inconsistent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config resolution for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		// config subcommands load the file themselves so they can report
		// on a broken one.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		resolvedConfigPath = config.ResolveConfigPath(configPath)
		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			// The command must not run, so report in JSON and still fail.
			if jsonOutput {
				outputError(ErrConfigInvalid, err.Error(), nil, "Run 'ptrack config show' to inspect the configuration")
			}
			return fmt.Errorf("failed to load config: %w", err)
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		logger.Debug("configuration loaded",
			zap.String("config", resolvedConfigPath),
			zap.String("state", resolvedStatePath),
			zap.String("data_dir", getDataDir()))
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the portfolio database (overrides data_dir in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug information to stderr")
	rootCmd.PersistentFlags().Var(&todayFlag, "today", "Evaluate deadlines and progress as of this date (YYYY-MM-DD, today, yesterday, tomorrow, month-end, quarter-end, year-end)")
}

// newLogger builds the stderr logger. Only errors are shown unless verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = true
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zcfg.DisableCaller = true
	}
	return zcfg.Build()
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getDataDir returns the resolved data directory.
func getDataDir() string {
	if d := strings.TrimSpace(dataDirFlag); d != "" {
		return d
	}
	return getConfig().GetDataDir()
}

// getStatePath returns the resolved state path.
func getStatePath() string {
	if resolvedStatePath == "" {
		return config.ResolveStatePath(statePathFlag, configPath, getConfig())
	}
	return resolvedStatePath
}

// today returns --today when given, otherwise the local calendar date.
func today() dates.CalendarDate {
	if todayFlag.set {
		return todayFlag.date
	}
	return dates.FromTime(time.Now())
}

func newNormalizer() (*dates.Normalizer, error) {
	return dates.NewNormalizer(getConfig().NormalizerOptions(logger))
}

func newProjector() (*timeline.Projector, error) {
	n, err := newNormalizer()
	if err != nil {
		return nil, err
	}
	return timeline.NewProjector(timeline.Options{
		Normalizer:     n,
		ActiveStatuses: getConfig().ActiveStatuses(),
	}), nil
}

func openStore() (*store.Store, error) {
	return store.Open(getDataDir())
}
