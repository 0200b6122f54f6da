package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/config"
	"github.com/portfolio-labs/ptrack/internal/dates"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// testEnv points every global at a temporary config, state file and data
// directory, with JSON output and a fixed today.
type testEnv struct {
	dir     string
	dataDir string
	state   string
	config  string
}

func setupCLI(t *testing.T) testEnv {
	t.Helper()

	prevConfig, prevState, prevDataDir := configPath, statePathFlag, dataDirFlag
	prevJSON, prevCfg, prevToday, prevLogger := jsonOutput, cfg, todayFlag, logger
	prevResolvedState, prevResolvedConfig := resolvedStatePath, resolvedConfigPath
	t.Cleanup(func() {
		configPath, statePathFlag, dataDirFlag = prevConfig, prevState, prevDataDir
		jsonOutput, cfg, todayFlag, logger = prevJSON, prevCfg, prevToday, prevLogger
		resolvedStatePath, resolvedConfigPath = prevResolvedState, prevResolvedConfig
		resetCommandFlags()
	})

	dir := t.TempDir()
	env := testEnv{
		dir:     dir,
		dataDir: filepath.Join(dir, "data"),
		state:   filepath.Join(dir, "state.toml"),
		config:  filepath.Join(dir, "config.toml"),
	}
	configPath = env.config
	statePathFlag = env.state
	dataDirFlag = env.dataDir
	jsonOutput = true
	cfg = &config.Config{}
	todayFlag = dateValue{date: dates.MustCalendarDate(2025, time.February, 10), set: true}
	logger = zap.NewNop()
	resolvedStatePath = ""
	resolvedConfigPath = ""
	resetCommandFlags()
	return env
}

func resetCommandFlags() {
	importMapFlags = nil
	importFormat = ""
	importDryRun = false
	importYes = false
	projectListStatuses.reset()
	projectListInitiative = ""
	projectListLimit = 0
	projectShowRaw = false
	timelineStatuses.reset()
	timelineInitiative = ""
	timelineAll = false
	reportRaw = false
	reportOutput = ""
	deadlinesWithin = 0
	deadlinesLimit = 20
	dateReferenceYear = 0
	dateSpan = false
	dateSpanYear = 0
	dateSpanStatus = "in_progress"
}

type testResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func decodeResponse(t *testing.T, out string) testResponse {
	t.Helper()
	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("failed to decode JSON output: %v\n%s", err, out)
	}
	return resp
}

func decodeData[T any](t *testing.T, resp testResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		t.Fatalf("failed to decode data: %v\n%s", err, resp.Data)
	}
	return v
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

const portfolioCSV = `Name,Start Date,End Date,Status,Progress,Color,Comments
Billing Revamp,Jan-25,2025-03-31,In Progress,40,green,Waiting on **vendor** sign-off.
Data Lake,03/04/2025,TBD,Incoming,0,amber,
Old Archive,2023-01-01,2023-06-30,Completed,100,green,
`

// importFixture imports portfolioCSV and returns the decoded summary.
func importFixture(t *testing.T, env testEnv) testResponse {
	t.Helper()
	path := filepath.Join(env.dir, "projects.csv")
	writeFile(t, path, portfolioCSV)

	var runErr error
	out := captureStdout(t, func() {
		runErr = importCmd.RunE(importCmd, []string{path})
	})
	if runErr != nil {
		t.Fatalf("import returned error: %v", runErr)
	}
	resp := decodeResponse(t, out)
	if !resp.OK {
		t.Fatalf("import failed: %+v", resp.Error)
	}
	return resp
}

func run(t *testing.T, fn func() error) testResponse {
	t.Helper()
	var runErr error
	out := captureStdout(t, func() {
		runErr = fn()
	})
	if runErr != nil {
		t.Fatalf("command returned error: %v", runErr)
	}
	return decodeResponse(t, out)
}
