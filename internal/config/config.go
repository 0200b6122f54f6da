// Package config handles global ptrack configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
)

const appName = "ptrack"

// DefaultDeadlineWindowDays is how far ahead the dashboard looks for
// upcoming deadlines when the config does not say.
const DefaultDeadlineWindowDays = 30

// Config represents the global ptrack configuration.
type Config struct {
	// DataDir holds the portfolio database. Defaults to the XDG data
	// directory (~/.local/share/ptrack).
	DataDir string `toml:"data_dir"`

	// StateFile overrides where machine-local state is kept. Relative paths
	// are resolved against the config file's directory.
	StateFile string `toml:"state_file"`

	Dates    DatesConfig    `toml:"dates"`
	Timeline TimelineConfig `toml:"timeline"`
	Audit    AuditConfig    `toml:"audit"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// DatesConfig controls how free-text project dates are read.
type DatesConfig struct {
	// ReferenceYear completes dates written without a year ("Mar 14").
	// Zero leaves such dates unparsed.
	ReferenceYear int `toml:"reference_year"`

	// Formats replaces the built-in format list when non-empty. Order
	// matters: the first matching pattern wins.
	Formats []dates.FormatSpec `toml:"formats"`
}

// TimelineConfig controls timeline and dashboard projection.
type TimelineConfig struct {
	// ActiveStatuses get a progress overlay on the current month.
	ActiveStatuses []string `toml:"active_statuses"`

	// DeadlineWindowDays is the dashboard's upcoming-deadline horizon.
	DeadlineWindowDays int `toml:"deadline_window_days"`
}

// AuditConfig controls the audit trail.
type AuditConfig struct {
	// Enabled defaults to true when unset.
	Enabled *bool `toml:"enabled"`

	// Actor is recorded on audit entries. Defaults to $USER.
	Actor string `toml:"actor"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// Validate checks values that would otherwise fail later in a confusing place.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range c.Dates.Formats {
		if _, err := f.Compile(); err != nil {
			errs = append(errs, fmt.Errorf("dates.formats: %w", err))
		}
	}
	if y := c.Dates.ReferenceYear; y < 0 || y > 9999 {
		errs = append(errs, fmt.Errorf("dates.reference_year: %d is not a valid year", y))
	}
	for _, s := range c.Timeline.ActiveStatuses {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, errors.New("timeline.active_statuses: empty status"))
		}
	}
	if c.Timeline.DeadlineWindowDays < 0 {
		errs = append(errs, fmt.Errorf("timeline.deadline_window_days: %d is negative", c.Timeline.DeadlineWindowDays))
	}
	return errors.Join(errs...)
}

// GetDataDir returns the configured data directory with ~ expanded, or the
// XDG default.
func (c *Config) GetDataDir() string {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return expandHome(dir)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appName)
	}
	return filepath.Join(".", "."+appName)
}

// NormalizerOptions builds date normalizer options from the [dates] section.
func (c *Config) NormalizerOptions(logger *zap.Logger) dates.Options {
	opts := dates.Options{
		ReferenceYear: c.Dates.ReferenceYear,
		Logger:        logger,
	}
	if len(c.Dates.Formats) > 0 {
		opts.Formats = c.Dates.Formats
	}
	return opts
}

// ActiveStatuses returns the configured active statuses in canonical form,
// or nil to use the timeline defaults.
func (c *Config) ActiveStatuses() []string {
	if len(c.Timeline.ActiveStatuses) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.Timeline.ActiveStatuses))
	for _, s := range c.Timeline.ActiveStatuses {
		out = append(out, model.NormalizeStatus(s))
	}
	return out
}

// DeadlineWindowDays returns the upcoming-deadline horizon.
func (c *Config) DeadlineWindowDays() int {
	if c.Timeline.DeadlineWindowDays > 0 {
		return c.Timeline.DeadlineWindowDays
	}
	return DefaultDeadlineWindowDays
}

// AuditEnabled reports whether audit entries are emitted.
func (c *Config) AuditEnabled() bool {
	return c.Audit.Enabled == nil || *c.Audit.Enabled
}

// AuditActor returns the actor recorded on audit entries.
func (c *Config) AuditActor() string {
	if a := strings.TrimSpace(c.Audit.Actor); a != "" {
		return a
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "unknown"
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// LoadOrDefault loads the config at path, or the default location when path
// is empty. A missing file yields a default config.
func LoadOrDefault(path string) (*Config, error) {
	path = ResolveConfigPath(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// DefaultPath returns the default config file path.
// Checks ~/.config/ptrack/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, appName, "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/ptrack/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return expandHome(explicitConfigPath)
	}
	return DefaultPath()
}

const defaultConfig = `# ptrack configuration

# Where the portfolio database lives (defaults to ~/.local/share/ptrack)
# data_dir = "~/portfolio"

[dates]
# Year used for dates written without one ("Mar 14"). 0 leaves them unparsed.
# reference_year = 2025
#
# Replace the built-in format list. Tokens: YYYY YY MMMM MMM MM M DD D.
# [[dates.formats]]
# pattern = "D.M.YYYY"
# meaning = "dotted day-first"

[timeline]
# Statuses that get a progress marker on the current month.
# active_statuses = ["in_progress", "active"]
# deadline_window_days = 30

[audit]
# enabled = true
# actor = "grace"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
[ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a commented default config file at path (or the
// default location) if it doesn't exist. It reports whether a file was
// written.
func CreateDefault(path string) (string, bool, error) {
	configPath := ResolveConfigPath(path)

	if _, err := os.Stat(configPath); err == nil {
		return configPath, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, true, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
