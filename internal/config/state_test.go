package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestResolveStatePath(t *testing.T) {
	configPath := "/tmp/ptrack/config.toml"

	t.Run("explicit state path wins", func(t *testing.T) {
		got := ResolveStatePath("/tmp/custom/state.toml", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != "/tmp/custom/state.toml" {
			t.Fatalf("expected explicit state path, got %q", got)
		}
	})

	t.Run("config state_file absolute", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "/var/tmp/ptrack-state.toml",
		})
		if got != "/var/tmp/ptrack-state.toml" {
			t.Fatalf("expected absolute state path, got %q", got)
		}
	})

	t.Run("config state_file relative to config dir", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/ptrack/config.toml", &Config{
			StateFile: "runtime/state.toml",
		})
		want := "/Users/me/.config/ptrack/runtime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback sibling state.toml", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/ptrack/config.toml", &Config{})
		want := "/Users/me/.config/ptrack/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadStateMissingReturnsDefault(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "state.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	if state.LastImport != nil {
		t.Fatalf("expected no last import, got %+v", state.LastImport)
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.toml")
	at := time.Date(2025, time.March, 10, 9, 30, 15, 123456789, time.UTC)

	err := SaveState(path, &State{LastImport: &ImportState{
		Source:   "/tmp/portfolio.csv",
		Format:   "csv",
		At:       at,
		Projects: 12,
		Created:  10,
		Updated:  2,
		Warnings: 1,
	}})
	if err != nil {
		t.Fatalf("SaveState returned error: %v", err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState returned error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	li := state.LastImport
	if li == nil {
		t.Fatal("expected last import to be persisted")
	}
	if li.Source != "/tmp/portfolio.csv" || li.Projects != 12 || li.Created != 10 || li.Updated != 2 || li.Warnings != 1 {
		t.Fatalf("unexpected last import: %+v", li)
	}
	if !li.At.Equal(at.Truncate(time.Second)) {
		t.Fatalf("expected timestamp truncated to seconds, got %v", li.At)
	}
}

func TestSaveStateRequiresPath(t *testing.T) {
	if err := SaveState(" ", &State{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
