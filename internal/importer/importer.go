// Package importer reads portfolio data from spreadsheet exports (CSV) and
// portfolio documents (YAML or JSON) into model values ready for the store.
//
// Raw date text is carried through verbatim. Dates that cannot be normalized
// are reported as warnings rather than errors so a messy spreadsheet still
// imports; the affected projects simply stay off the timeline.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/slugs"
)

// Input formats.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrNoNameColumn      = errors.New("no project name column")
)

// Warning kinds.
const (
	KindMissingDate     = "missing_date"
	KindUnparseableDate = "unparseable_date"
	KindAmbiguousDate   = "ambiguous_date"
	KindInvertedRange   = "inverted_range"
)

// Warning is a data-quality problem that did not stop the import.
type Warning struct {
	Kind    string `json:"kind"`
	Entity  string `json:"entity"`
	Key     string `json:"key,omitempty"`
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Entity)
	if w.Row > 0 {
		fmt.Fprintf(&b, " row %d", w.Row)
	}
	if w.Key != "" {
		fmt.Fprintf(&b, " %q", w.Key)
	}
	fmt.Fprintf(&b, ": %s", w.Field)
	if w.Value != "" {
		fmt.Fprintf(&b, " %q", w.Value)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// Result is a decoded portfolio plus the warnings raised while reading it.
type Result struct {
	Format    string          `json:"format"`
	Portfolio model.Portfolio `json:"-"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}

// Options configures an Importer.
type Options struct {
	// Normalizer checks raw dates. Nil means dates.Default().
	Normalizer *dates.Normalizer

	// Columns maps extra CSV header names to project fields, on top of the
	// built-in aliases ("Project Title" -> "name").
	Columns map[string]string

	Logger *zap.Logger
}

// Importer decodes import files. It is safe for concurrent use.
type Importer struct {
	normalizer *dates.Normalizer
	columns    map[string]string
	logger     *zap.Logger
}

// New creates an Importer. It fails when a column mapping names an unknown
// project field.
func New(opts Options) (*Importer, error) {
	if opts.Normalizer == nil {
		opts.Normalizer = dates.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	columns := make(map[string]string, len(columnAliases)+len(opts.Columns))
	for header, field := range columnAliases {
		columns[header] = field
	}
	for header, field := range opts.Columns {
		field = normalizeHeader(field)
		if _, ok := columnAliases[field]; !ok {
			return nil, fmt.Errorf("column %q maps to unknown field %q", header, field)
		}
		columns[normalizeHeader(header)] = columnAliases[field]
	}

	return &Importer{
		normalizer: opts.Normalizer,
		columns:    columns,
		logger:     opts.Logger.Named("import"),
	}, nil
}

// DetectFormat picks the input format from a file extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadFile decodes path according to its extension.
func (im *Importer) ReadFile(path string) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return im.Read(f, format)
}

// Read decodes r as format.
func (im *Importer) Read(r io.Reader, format string) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch format {
	case FormatCSV:
		res, err = im.ReadCSV(r)
	case FormatYAML, FormatJSON:
		// JSON documents are valid YAML flow documents.
		res, err = im.ReadYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	res.Format = format

	im.logger.Debug("decoded import",
		zap.String("format", format),
		zap.Int("projects", len(res.Portfolio.Projects)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

// checkProject validates and canonicalizes p in place. keys tracks the keys
// already used in this import; derived keys are made unique against it.
func (im *Importer) checkProject(p *model.Project, row int, keys map[string]bool) ([]Warning, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("%s: project name is required", location(row, p.Key))
	}

	if p.Key == "" {
		p.Key = slugs.Unique(slugs.Key(p.Name), func(k string) bool { return keys[k] })
	} else if !slugs.IsKey(p.Key) {
		return nil, fmt.Errorf("%s: invalid key %q", location(row, p.Key), p.Key)
	} else if keys[p.Key] {
		return nil, fmt.Errorf("%s: duplicate key %q", location(row, p.Key), p.Key)
	}
	keys[p.Key] = true

	status, err := model.ValidateStatus(p.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location(row, p.Key), err)
	}
	p.Status = status

	color, err := model.ValidateColor(p.ColorStatus)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location(row, p.Key), err)
	}
	p.ColorStatus = color

	if p.Progress < 0 || p.Progress > 100 {
		return nil, fmt.Errorf("%s: progress %v is outside 0..100", location(row, p.Key), p.Progress)
	}

	p.StartRaw = strings.TrimSpace(p.StartRaw)
	p.EndRaw = strings.TrimSpace(p.EndRaw)
	return im.checkSpan("project", p.Key, row, p.StartRaw, p.EndRaw), nil
}

// checkSpan reports dates that will not land on the timeline.
func (im *Importer) checkSpan(entity, key string, row int, rawStart, rawEnd string) []Warning {
	var warnings []Warning
	warn := func(kind, field, value, msg string) {
		warnings = append(warnings, Warning{Kind: kind, Entity: entity, Key: key, Row: row, Field: field, Value: value, Message: msg})
	}

	start := im.normalizer.Resolve(rawStart)
	end := im.normalizer.Resolve(rawEnd)
	for _, c := range []struct {
		field string
		raw   string
		res   dates.Resolution
	}{{"start", rawStart, start}, {"end", rawEnd, end}} {
		switch {
		case c.res.Rule == dates.RuleEmpty:
			warn(KindMissingDate, c.field, "", "missing date")
		case !c.res.OK:
			warn(KindUnparseableDate, c.field, c.raw, "unparseable date")
		case c.res.Rule == dates.RuleHeuristic:
			warn(KindAmbiguousDate, c.field, c.raw, "ambiguous date read as "+c.res.Date.String())
		}
	}

	if start.OK && end.OK && end.Date.Before(start.Date) {
		warn(KindInvertedRange, "end", rawEnd, "end date is before start date "+start.Date.String())
	}
	return warnings
}

func location(row int, key string) string {
	switch {
	case row > 0:
		return "row " + strconv.Itoa(row)
	case key != "":
		return "project " + strconv.Quote(key)
	}
	return "project"
}

// parseProgress accepts "45", "45.5" and "45%". Empty is zero.
func parseProgress(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q", s)
	}
	return v, nil
}
