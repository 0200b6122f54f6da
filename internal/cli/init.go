package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/store"
	"github.com/portfolio-labs/ptrack/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the config file and portfolio database",
	Long: `Creates a commented config file (unless one exists) and an empty
portfolio database in the data directory.

Creates:
  - config.toml       (in ~/.config/ptrack unless --config is given)
  - portfolio.db      (in the data directory)

Running init again is safe: existing files are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.CreateDefault(configPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		dataDir := getDataDir()
		s, err := store.Open(dataDir)
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check that the data directory is writable or pass --data-dir")
		}
		defer s.Close()

		version, err := s.Version()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		logger.Debug("initialized", zap.String("config", path), zap.String("data_dir", dataDir))

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path":    path,
				"config_created": created,
				"data_dir":       dataDir,
				"database":       store.Path(dataDir),
				"schema_version": version,
			}, nil)
			return nil
		}

		if created {
			fmt.Println(ui.Successf("Created config %s", ui.FilePath(path)))
		} else {
			fmt.Printf("Using config %s\n", ui.FilePath(path))
		}
		fmt.Println(ui.Successf("Database ready at %s", ui.FilePath(store.Path(dataDir))))
		fmt.Println()
		fmt.Println(ui.Hint("Next: ptrack import portfolio.csv"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
