package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-labs/ptrack/internal/model"
)

func newImporter(t *testing.T, opts Options) *Importer {
	t.Helper()
	im, err := New(opts)
	require.NoError(t, err)
	return im
}

const sheet = `Project Name,Developer,System Analyst,Start Date,End Date,Progress,Status,Color Status,Strategic Initiatives or Activities,Notes
Billing Revamp,ada,grace,Jan-25,2025-06-30,45%,In Progress,Green - On Schedule,mobile-first,ignored
Data Lake,linus,,03/01/2025,TBD,10,incoming,amber,,
,,,,,,,,,
Billing Revamp,ken,,Q3 2025,2025-01-01,0,,,,
`

func TestReadCSV(t *testing.T) {
	im := newImporter(t, Options{})
	res, err := im.ReadCSV(strings.NewReader(sheet))
	require.NoError(t, err)

	projects := res.Portfolio.Projects
	require.Len(t, projects, 3)

	billing := projects[0]
	assert.Equal(t, "billing-revamp", billing.Key)
	assert.Equal(t, "Billing Revamp", billing.Name)
	assert.Equal(t, "ada", billing.Developer)
	assert.Equal(t, "grace", billing.SystemAnalyst)
	assert.Equal(t, "Jan-25", billing.StartRaw, "raw date text is kept verbatim")
	assert.Equal(t, "2025-06-30", billing.EndRaw)
	assert.Equal(t, 45.0, billing.Progress)
	assert.Equal(t, model.StatusInProgress, billing.Status)
	assert.Equal(t, model.ColorGreen, billing.ColorStatus)
	assert.Equal(t, "mobile-first", billing.InitiativeKey)

	assert.Equal(t, model.ColorAmber, projects[1].ColorStatus)
	assert.Equal(t, "billing-revamp-2", projects[2].Key, "derived keys are unique within a file")
	assert.Equal(t, model.StatusIncoming, projects[2].Status)
	assert.Equal(t, model.ColorNotStarted, projects[2].ColorStatus)

	require.Len(t, res.Warnings, 3)
	assert.Equal(t, Warning{Kind: KindUnparseableDate, Entity: "project", Key: "data-lake", Row: 3, Field: "end", Value: "TBD", Message: "unparseable date"}, res.Warnings[0])
	assert.Equal(t, 5, res.Warnings[1].Row, "blank rows still count")
	assert.Equal(t, "start", res.Warnings[1].Field)
	assert.Equal(t, KindAmbiguousDate, res.Warnings[1].Kind)
	assert.Contains(t, res.Warnings[1].Message, "ambiguous date read as 2025-03-01")
	assert.Equal(t, KindInvertedRange, res.Warnings[2].Kind)
	assert.Equal(t, "end date is before start date 2025-03-01", res.Warnings[2].Message)
}

func TestReadCSVErrors(t *testing.T) {
	im := newImporter(t, Options{})

	tests := []struct {
		name    string
		input   string
		wantErr string
		is      error
	}{
		{name: "no name column", input: "title,start\nA,2025-01-01\n", is: ErrNoNameColumn},
		{name: "unknown status", input: "name,status\nA,paused\n", wantErr: "row 2", is: model.ErrUnknownStatus},
		{name: "unknown color", input: "name,color\nA,purple\n", is: model.ErrUnknownColor},
		{name: "bad progress", input: "name,progress\nA,half\n", wantErr: `row 2: invalid progress "half"`},
		{name: "progress out of range", input: "name,progress\nA,140\n", wantErr: "outside 0..100"},
		{name: "missing name", input: "name,developer\n,ada\n", wantErr: "row 2: project name is required"},
		{name: "duplicate explicit key", input: "name,key\nA,a\nB,a\n", wantErr: `row 3: duplicate key "a"`},
		{name: "invalid key", input: "name,key\nA,Not A Key\n", wantErr: "invalid key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}

func TestReadCSVEmpty(t *testing.T) {
	res, err := newImporter(t, Options{}).ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, res.Portfolio.Empty())
}

func TestColumnMapping(t *testing.T) {
	im := newImporter(t, Options{Columns: map[string]string{"Project Title": "name", "Kickoff": "start_date"}})
	res, err := im.ReadCSV(strings.NewReader("Project Title,Kickoff,End\nA,2025-01-01,2025-02-01\n"))
	require.NoError(t, err)
	require.Len(t, res.Portfolio.Projects, 1)
	assert.Equal(t, "A", res.Portfolio.Projects[0].Name)
	assert.Equal(t, "2025-01-01", res.Portfolio.Projects[0].StartRaw)
	assert.Empty(t, res.Warnings)

	_, err = New(Options{Columns: map[string]string{"Budget": "cost"}})
	assert.ErrorContains(t, err, `unknown field "cost"`)
}

const portfolioYAML = `
divisions:
  - code: BT
    leader: grace
plans:
  - name: Plan 2025
    division: Business Technology
    weightage: 40
perspectives:
  - name: Customer
    plan: Plan 2025
objectives:
  - name: Grow digital channels
initiatives:
  - key: mobile-first
    name: Mobile first
    objective: grow-digital-channels
    perspective: customer
    start: 2025-01-01
    end: sometime
members:
  - username: ada
    full_name: Ada Lovelace
    role: Developer
    availability: Busy
  - username: grace
    role: 2
projects:
  - name: Billing Revamp
    start: 2025-01-15
    end: Jun-25
    progress: 40
    status: in progress
    color_status: green
    initiative: mobile-first
progress:
  - project: billing-revamp
    month: Feb
    year: 2025
    color: Amber - Partly on Schedule
  - project: billing-revamp
    month: 3
    year: 2025
`

func TestReadYAML(t *testing.T) {
	res, err := newImporter(t, Options{}).ReadYAML(strings.NewReader(portfolioYAML))
	require.NoError(t, err)
	p := res.Portfolio

	assert.Equal(t, []model.Division{{Code: "bt", Leader: "grace"}}, p.Divisions)
	require.Len(t, p.Plans, 1)
	assert.Equal(t, "bt", p.Plans[0].Division)
	assert.Equal(t, []model.Perspective{{Name: model.PerspectiveCustomer, Plan: "Plan 2025"}}, p.Perspectives)
	assert.Equal(t, []model.Objective{{Key: "grow-digital-channels", Name: "Grow digital channels"}}, p.Objectives)

	require.Len(t, p.Initiatives, 1)
	assert.Equal(t, "2025-01-01", p.Initiatives[0].StartRaw)
	assert.Equal(t, model.PerspectiveCustomer, p.Initiatives[0].Perspective)

	require.Len(t, p.Members, 2)
	assert.Equal(t, model.AvailabilityBusy, p.Members[0].Availability)
	assert.Equal(t, "Developer", p.Members[0].Role.String())
	assert.Equal(t, model.Role(2), p.Members[1].Role)

	require.Len(t, p.Projects, 1)
	proj := p.Projects[0]
	assert.Equal(t, "billing-revamp", proj.Key)
	assert.Equal(t, "2025-01-15", proj.StartRaw, "YAML timestamps stay as written")
	assert.Equal(t, model.StatusInProgress, proj.Status)

	require.Len(t, p.Progress, 2)
	assert.Equal(t, time.February, p.Progress[0].Month)
	assert.Equal(t, model.ColorAmber, p.Progress[0].Color)
	assert.Equal(t, time.March, p.Progress[1].Month)
	assert.Equal(t, model.ColorNotStarted, p.Progress[1].Color)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, Warning{Kind: KindUnparseableDate, Entity: "initiative", Key: "mobile-first", Field: "end", Value: "sometime", Message: "unparseable date"}, res.Warnings[0])
}

func TestReadYAMLErrors(t *testing.T) {
	im := newImporter(t, Options{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unknown key", input: "projets: []\n", want: "failed to parse portfolio document"},
		{name: "bad division", input: "divisions:\n  - code: mars\n", want: "unknown division"},
		{name: "bad role", input: "members:\n  - username: a\n    role: 9\n", want: "unknown role"},
		{name: "bad month", input: "progress:\n  - project: a\n    month: Smarch\n    year: 2025\n", want: "unknown month"},
		{name: "bad year", input: "progress:\n  - project: a\n    month: Jan\n", want: "invalid year 0"},
		{name: "member without username", input: "members:\n  - full_name: Nobody\n", want: "username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.ReadYAML(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "portfolio.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"projects": [{"name": "Data Lake", "start": "2025-01-01", "end": "2025-12-31"}]}`), 0o644))

	im := newImporter(t, Options{})
	res, err := im.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, res.Format)
	require.Len(t, res.Portfolio.Projects, 1)
	assert.Equal(t, "data-lake", res.Portfolio.Projects[0].Key)

	_, err = im.ReadFile(filepath.Join(dir, "portfolio.xlsx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWarningString(t *testing.T) {
	w := Warning{Entity: "project", Key: "data-lake", Row: 3, Field: "end", Value: "TBD", Message: "unparseable date"}
	assert.Equal(t, `project row 3 "data-lake": end "TBD": unparseable date`, w.String())
}
