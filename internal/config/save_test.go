package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/portfolio-labs/ptrack/internal/dates"
)

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	disabled := false
	cfg := &Config{
		DataDir: "/srv/portfolio",
		Dates: DatesConfig{
			ReferenceYear: 2025,
			Formats:       []dates.FormatSpec{{Pattern: "D.M.YYYY", Meaning: "dotted"}},
		},
		Timeline: TimelineConfig{ActiveStatuses: []string{"in_progress"}, DeadlineWindowDays: 21},
		Audit:    AuditConfig{Enabled: &disabled, Actor: "grace"},
		UI:       UIConfig{Accent: "#FF8800"},
	}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(dates.FormatSpec{})); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveToOmitsUnsetSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := SaveTo(path, &Config{DataDir: "/srv/portfolio"}); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	for _, section := range []string{"[dates]", "[timeline]", "[audit]", "[ui]"} {
		if strings.Contains(string(data), section) {
			t.Errorf("expected %s to be omitted, got:\n%s", section, data)
		}
	}
}

func TestSaveToRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &Config{Dates: DatesConfig{Formats: []dates.FormatSpec{{Pattern: "DD"}}}}

	if err := SaveTo(path, cfg); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, stat err = %v", err)
	}
}
