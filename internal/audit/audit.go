// Package audit records who changed what. Entries are emitted as structured
// log events and optionally handed to a Sink; recording never fails the
// operation being audited.
package audit

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
)

// NoChanges is the summary used when an update touched no tracked field.
const NoChanges = "No significant changes"

// Entry is a single audit record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Model     string    `json:"model"`
	ObjectID  string    `json:"object_id,omitempty"`
	Changes   string    `json:"changes,omitempty"`
	Client    Client    `json:"client"`
}

// Sink receives recorded entries. Persisting them is up to the sink.
type Sink interface {
	Write(Entry) error
}

// Recorder stamps and emits audit entries.
type Recorder struct {
	logger  *zap.Logger
	actor   string
	client  Client
	enabled bool
	now     func() time.Time

	mu   sync.Mutex
	sink Sink
}

// Options configures a Recorder.
type Options struct {
	Logger  *zap.Logger
	Actor   string
	Client  Client
	Enabled bool
	Sink    Sink
	Now     func() time.Time
}

// NewRecorder creates a Recorder. A disabled recorder drops every entry.
func NewRecorder(opts Options) *Recorder {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Actor == "" {
		opts.Actor = "unknown"
	}
	return &Recorder{
		logger:  opts.Logger.Named("audit"),
		actor:   opts.Actor,
		client:  opts.Client,
		enabled: opts.Enabled,
		now:     opts.Now,
		sink:    opts.Sink,
	}
}

// Enabled returns true if the recorder emits entries.
func (r *Recorder) Enabled() bool {
	return r != nil && r.enabled
}

// Record fills in timestamp, actor and client when unset and emits e.
// It returns the completed entry, or false when recording is disabled.
func (r *Recorder) Record(e Entry) (Entry, bool) {
	if !r.Enabled() {
		return Entry{}, false
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	if e.Actor == "" {
		e.Actor = r.actor
	}
	if e.Client == (Client{}) {
		e.Client = r.client
	}

	r.logger.Info("audit",
		zap.Time("ts", e.Timestamp),
		zap.String("actor", e.Actor),
		zap.String("action", e.Action),
		zap.String("model", e.Model),
		zap.String("object_id", e.ObjectID),
		zap.String("changes", e.Changes),
		zap.String("browser", e.Client.Browser),
		zap.String("os", e.Client.OS),
		zap.String("device", e.Client.Device),
		zap.String("ip", e.Client.IPAddress),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sink != nil {
		if err := r.safeWrite(e); err != nil {
			r.logger.Error("failed to write audit entry", zap.Error(err), zap.String("model", e.Model), zap.String("object_id", e.ObjectID))
		}
	}
	return e, true
}

func (r *Recorder) safeWrite(e Entry) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("audit sink panicked: %v", p)
		}
	}()
	return r.sink.Write(e)
}

// RecordCreate records the creation of an object. An empty summary becomes
// "create <model>: <name>".
func (r *Recorder) RecordCreate(modelName, id, name, summary string) (Entry, bool) {
	if summary == "" {
		summary = fmt.Sprintf("%s %s: %s", ActionCreate, modelName, name)
	}
	return r.Record(Entry{Action: ActionCreate, Model: modelName, ObjectID: id, Changes: summary})
}

// RecordUpdate records field changes on an existing object.
func (r *Recorder) RecordUpdate(modelName, id, changes string) (Entry, bool) {
	if changes == "" {
		changes = NoChanges
	}
	return r.Record(Entry{Action: ActionUpdate, Model: modelName, ObjectID: id, Changes: changes})
}

// RecordImport records a bulk import from source with a per-entity count
// summary.
func (r *Recorder) RecordImport(source string, counts map[string]int) (Entry, bool) {
	return r.Record(Entry{Action: ActionImport, Model: "portfolio", ObjectID: source, Changes: countSummary(counts)})
}

// FieldChanges compares tracked fields between two snapshots and renders
// "field: 'old' → 'new'" pairs joined by "; ". Fields missing from either
// snapshot are skipped.
func FieldChanges(before, after map[string]string, fields []string) string {
	var changes []string
	for _, f := range fields {
		oldValue, okOld := before[f]
		newValue, okNew := after[f]
		if !okOld || !okNew || oldValue == newValue {
			continue
		}
		changes = append(changes, fmt.Sprintf("%s: '%s' → '%s'", f, oldValue, newValue))
	}
	if len(changes) == 0 {
		return NoChanges
	}
	return strings.Join(changes, "; ")
}

func countSummary(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return NoChanges
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
