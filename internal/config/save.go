package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/portfolio-labs/ptrack/internal/atomicfile"
	"github.com/portfolio-labs/ptrack/internal/dates"
)

type persistedConfig struct {
	DataDir   *string                    `toml:"data_dir,omitempty"`
	StateFile *string                    `toml:"state_file,omitempty"`
	Dates     *persistedDatesSettings    `toml:"dates,omitempty"`
	Timeline  *persistedTimelineSettings `toml:"timeline,omitempty"`
	Audit     *persistedAuditSettings    `toml:"audit,omitempty"`
	UI        *persistedUISettings       `toml:"ui,omitempty"`
}

type persistedDatesSettings struct {
	ReferenceYear *int               `toml:"reference_year,omitempty"`
	Formats       []dates.FormatSpec `toml:"formats,omitempty"`
}

type persistedTimelineSettings struct {
	ActiveStatuses     []string `toml:"active_statuses,omitempty"`
	DeadlineWindowDays *int     `toml:"deadline_window_days,omitempty"`
}

type persistedAuditSettings struct {
	Enabled *bool   `toml:"enabled,omitempty"`
	Actor   *string `toml:"actor,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positivePtr(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically. Unset
// values are left out so the file stays minimal.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	out := persistedConfig{
		DataDir:   nonEmptyPtr(cfg.DataDir),
		StateFile: nonEmptyPtr(cfg.StateFile),
	}

	if year := positivePtr(cfg.Dates.ReferenceYear); year != nil || len(cfg.Dates.Formats) > 0 {
		out.Dates = &persistedDatesSettings{ReferenceYear: year, Formats: cfg.Dates.Formats}
	}

	window := positivePtr(cfg.Timeline.DeadlineWindowDays)
	if window != nil || len(cfg.Timeline.ActiveStatuses) > 0 {
		out.Timeline = &persistedTimelineSettings{
			ActiveStatuses:     cfg.Timeline.ActiveStatuses,
			DeadlineWindowDays: window,
		}
	}

	actor := nonEmptyPtr(cfg.Audit.Actor)
	if cfg.Audit.Enabled != nil || actor != nil {
		out.Audit = &persistedAuditSettings{Enabled: cfg.Audit.Enabled, Actor: actor}
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
