package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/portfolio-labs/ptrack/internal/model"
)

type memorySink struct {
	entries []Entry
	err     error
	panics  bool
}

func (s *memorySink) Write(e Entry) error {
	if s.panics {
		panic("disk on fire")
	}
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestRecorder(t *testing.T, sink Sink) (*Recorder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRecorder(Options{
		Logger:  zap.New(core),
		Actor:   "grace",
		Client:  LocalClient("ptrack/test"),
		Enabled: true,
		Sink:    sink,
		Now:     func() time.Time { return fixedNow },
	})
	return r, logs
}

func TestRecorderDisabled(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(Options{Sink: sink})
	assert.False(t, r.Enabled())

	_, ok := r.RecordCreate("Project", "1", "Billing", "")
	assert.False(t, ok)
	assert.Empty(t, sink.entries)

	var nilRecorder *Recorder
	assert.False(t, nilRecorder.Enabled())
}

func TestRecordCreate(t *testing.T) {
	sink := &memorySink{}
	r, logs := newTestRecorder(t, sink)

	e, ok := r.RecordCreate("Project", "0190-abc", "Billing Revamp", "")
	require.True(t, ok)
	assert.Equal(t, "create Project: Billing Revamp", e.Changes)
	assert.Equal(t, "grace", e.Actor)
	assert.Equal(t, ActionCreate, e.Action)
	assert.True(t, e.Timestamp.Equal(fixedNow))
	assert.Equal(t, "Terminal", e.Client.Device)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, e, sink.entries[0])

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "create", fields["action"])
	assert.Equal(t, "0190-abc", fields["object_id"])
	assert.Equal(t, "audit", logs.All()[0].LoggerName)
}

func TestRecordSinkFailureDoesNotPropagate(t *testing.T) {
	r, logs := newTestRecorder(t, &memorySink{err: errors.New("read-only filesystem")})
	_, ok := r.RecordUpdate("Project", "1", "")
	assert.True(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("failed to write audit entry").Len())

	r, logs = newTestRecorder(t, &memorySink{panics: true})
	assert.NotPanics(t, func() { r.RecordUpdate("Project", "1", "status: 'a' → 'b'") })
	assert.Equal(t, 1, logs.FilterMessage("failed to write audit entry").Len())
}

func TestRecordUpdateDefaultsToNoChanges(t *testing.T) {
	r, _ := newTestRecorder(t, nil)
	e, ok := r.RecordUpdate("Project", "1", "")
	require.True(t, ok)
	assert.Equal(t, NoChanges, e.Changes)
}

func TestRecordImport(t *testing.T) {
	r, _ := newTestRecorder(t, nil)
	e, ok := r.RecordImport("portfolio.yaml", map[string]int{"projects": 3, "members": 2, "plans": 0})
	require.True(t, ok)
	assert.Equal(t, "members=2 projects=3", e.Changes)
	assert.Equal(t, "portfolio.yaml", e.ObjectID)
	assert.Equal(t, ActionImport, e.Action)
}

func TestFieldChanges(t *testing.T) {
	before := map[string]string{"status": "incoming", "progress": "10.00", "name": "A"}
	after := map[string]string{"status": "in_progress", "progress": "25.00", "name": "A"}

	got := FieldChanges(before, after, []string{"name", "status", "progress", "missing"})
	assert.Equal(t, "status: 'incoming' → 'in_progress'; progress: '10.00' → '25.00'", got)

	assert.Equal(t, NoChanges, FieldChanges(before, before, []string{"name", "status"}))
}

func TestProjectChanges(t *testing.T) {
	before := model.Project{Name: "Billing", StartRaw: "Jan-25", EndRaw: "2025-03-31", Status: model.StatusInProgress, Progress: 40}
	after := before
	after.EndRaw = "2025-04-30"
	after.Progress = 55.5

	assert.Equal(t, "end: '2025-03-31' → '2025-04-30'; progress: '40.00' → '55.50'", ProjectChanges(before, after))
	assert.Equal(t, NoChanges, ProjectChanges(before, before))
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", LogFileName)
	fl, err := OpenFileLogger(path)
	require.NoError(t, err)

	r := NewRecorder(Options{
		Logger:  fl.Logger,
		Actor:   "grace",
		Client:  LocalClient("ptrack/test"),
		Enabled: true,
		Now:     func() time.Time { return fixedNow },
	})
	created, _ := r.RecordCreate("project", "0190-abc", "Billing", "")
	fl.Debug("not an audit entry")
	fl.Info("import started")
	updated, _ := r.RecordUpdate("project", "0190-abc", "end: 'TBD' → '2025-06-30'")
	require.NoError(t, fl.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := ReadLog(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for i, want := range []Entry{created, updated} {
		got := entries[i]
		assert.True(t, got.Timestamp.Equal(fixedNow), "entry %d ts = %v", i, got.Timestamp)
		got.Timestamp, want.Timestamp = time.Time{}, time.Time{}
		assert.Equal(t, want, got)
	}

	missing, err := ReadLog(filepath.Join(t.TempDir(), LogFileName))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
