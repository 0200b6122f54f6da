package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-labs/ptrack/internal/audit"
	"github.com/portfolio-labs/ptrack/internal/config"
)

func TestImportAppendsAuditLogWithQuietLogger(t *testing.T) {
	env := setupCLI(t)
	quiet, err := newLogger(false)
	require.NoError(t, err)
	logger = quiet
	cfg = &config.Config{Audit: config.AuditConfig{Actor: "grace"}}

	importFixture(t, env)
	importFixture(t, env)

	entries, err := audit.ReadLog(filepath.Join(env.dataDir, audit.LogFileName))
	require.NoError(t, err)

	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
		assert.Equal(t, "grace", e.Actor)
		assert.Equal(t, "Terminal", e.Client.Device)
		assert.False(t, e.Timestamp.IsZero(), "entry %+v has no timestamp", e)
	}
	assert.Equal(t, []string{
		"create", "create", "create", "import",
		"update", "update", "update", "import",
	}, actions)
	assert.Equal(t, "projects created=3", entries[3].Changes)
	assert.Equal(t, "projects updated=3", entries[7].Changes)
}

func TestImportWithoutAuditOrDryRunLeavesNoLog(t *testing.T) {
	env := setupCLI(t)
	disabled := false
	cfg = &config.Config{Audit: config.AuditConfig{Enabled: &disabled}}
	importFixture(t, env)

	_, err := os.Stat(filepath.Join(env.dataDir, audit.LogFileName))
	assert.ErrorIs(t, err, os.ErrNotExist)

	env = setupCLI(t)
	importDryRun = true
	importFixture(t, env)

	entries, err := audit.ReadLog(filepath.Join(env.dataDir, audit.LogFileName))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
