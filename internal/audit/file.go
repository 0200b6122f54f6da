package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileName is the audit log kept in the data directory.
const LogFileName = "audit.log"

// iso8601Layout matches zapcore.ISO8601TimeEncoder.
const iso8601Layout = "2006-01-02T15:04:05.000Z0700"

// FileLogger appends audit events to a file as JSON lines. It logs at info
// level regardless of how verbose the command-line logger is.
type FileLogger struct {
	*zap.Logger
	f *os.File
}

// OpenFileLogger opens (creating if needed) the audit log at path.
func OpenFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	enc := zap.NewProductionEncoderConfig()
	// entries carry their own ts field
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.StacktraceKey = ""
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(f), zapcore.InfoLevel)
	return &FileLogger{Logger: zap.New(core), f: f}, nil
}

// Close flushes and closes the log file.
func (l *FileLogger) Close() error {
	_ = l.Sync()
	return l.f.Close()
}

// logLine is the on-disk shape written by Recorder.Record.
type logLine struct {
	Msg      string `json:"msg"`
	TS       string `json:"ts"`
	Actor    string `json:"actor"`
	Action   string `json:"action"`
	Model    string `json:"model"`
	ObjectID string `json:"object_id"`
	Changes  string `json:"changes"`
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	Device   string `json:"device"`
	IP       string `json:"ip"`
}

// ReadLog reads the entries recorded in the audit log at path. A missing
// file has no entries; malformed lines and non-entry events are skipped.
func ReadLog(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var line logLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil || line.Msg != "audit" {
			continue
		}
		ts, _ := time.Parse(iso8601Layout, line.TS)
		entries = append(entries, Entry{
			Timestamp: ts,
			Actor:     line.Actor,
			Action:    line.Action,
			Model:     line.Model,
			ObjectID:  line.ObjectID,
			Changes:   line.Changes,
			Client:    Client{Browser: line.Browser, OS: line.OS, Device: line.Device, IPAddress: line.IP},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}
