// Package lastresults persists the most recent numbered listing (projects,
// members, initiatives) so follow-up commands can refer to rows by number:
// `ptrack project list` then `ptrack project show 3`.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/portfolio-labs/ptrack/internal/atomicfile"
	"github.com/portfolio-labs/ptrack/internal/model"
)

// Source identifies the command that produced the results.
type Source string

const (
	SourceProjects    Source = "projects"
	SourceMembers     Source = "members"
	SourceInitiatives Source = "initiatives"
	SourceDeadlines   Source = "deadlines"
)

// FileName is the listing file kept in the data directory.
const FileName = "last-results.json"

// LastResults stores the results of the most recent listing command.
type LastResults struct {
	Source    Source         `json:"source"`
	Query     string         `json:"query,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Results   []StoredResult `json:"results"`
}

// StoredResult wraps a result with its kind for decoding.
type StoredResult struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the path to the last-results.json file.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Write saves the last results to disk atomically.
func Write(dataDir string, lr *LastResults) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	err := atomicfile.Write(Path(dataDir), 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lr)
	})
	if err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the last results from disk.
func Read(dataDir string) (*LastResults, error) {
	data, err := os.ReadFile(Path(dataDir))
	if os.IsNotExist(err) {
		return nil, ErrNoLastResults
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}

	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// NewFromResults builds a LastResults from model results.
func NewFromResults(source Source, query string, results []model.Result) (*LastResults, error) {
	encoded := make([]StoredResult, len(results))
	for i, result := range results {
		data, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s result: %w", result.GetKind(), err)
		}
		encoded[i] = StoredResult{Kind: result.GetKind(), Data: data}
	}

	return &LastResults{
		Source:    source,
		Query:     query,
		Timestamp: time.Now(),
		Results:   encoded,
	}, nil
}

// GetByNumbers returns the results matching the given numbers (1-indexed).
func (lr *LastResults) GetByNumbers(nums []int) ([]model.Result, error) {
	results := make([]model.Result, 0, len(nums))

	for _, num := range nums {
		if num < 1 || num > len(lr.Results) {
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.Results))
		}
		decoded, err := lr.Results[num-1].Decode()
		if err != nil {
			return nil, err
		}
		results = append(results, decoded)
	}

	return results, nil
}

// DecodeProjects decodes results as projects (errors if any result is not a project).
func (lr *LastResults) DecodeProjects() ([]model.Project, error) {
	return decodeResults[model.Project](lr.Results, "project")
}

// Decode converts a stored result into the appropriate model type.
func (sr StoredResult) Decode() (model.Result, error) {
	switch sr.Kind {
	case "project":
		return decodeOne[model.Project](sr)
	case "member":
		return decodeOne[model.Member](sr)
	case "initiative":
		return decodeOne[model.Initiative](sr)
	default:
		return nil, fmt.Errorf("unknown result kind: %s", sr.Kind)
	}
}

func decodeOne[T model.Result](sr StoredResult) (model.Result, error) {
	var item T
	if err := json.Unmarshal(sr.Data, &item); err != nil {
		return nil, fmt.Errorf("failed to parse %s result: %w", sr.Kind, err)
	}
	return item, nil
}

func decodeResults[T any](results []StoredResult, kind string) ([]T, error) {
	decoded := make([]T, 0, len(results))
	for _, stored := range results {
		if stored.Kind != kind {
			return nil, fmt.Errorf("expected %s result, found %s", kind, stored.Kind)
		}
		var item T
		if err := json.Unmarshal(stored.Data, &item); err != nil {
			return nil, fmt.Errorf("failed to parse %s result: %w", kind, err)
		}
		decoded = append(decoded, item)
	}
	return decoded, nil
}
