package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-labs/ptrack/internal/model"
)

var t0 = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	s.SetClock(func() time.Time { return t0 })
	return s
}

func samplePortfolio() model.Portfolio {
	return model.Portfolio{
		Divisions:    []model.Division{{Code: "itsd", Leader: "grace"}},
		Plans:        []model.YearlyPlan{{Name: "Plan 2025", Division: "itsd", Weightage: 40}},
		Perspectives: []model.Perspective{{Name: model.PerspectiveCustomer, Plan: "Plan 2025"}},
		Objectives:   []model.Objective{{Name: "Digital channels"}},
		Initiatives: []model.Initiative{
			{Name: "Mobile first", ObjectiveKey: "digital-channels", Perspective: model.PerspectiveCustomer, StartRaw: "Jan-25", EndRaw: "Dec-25"},
		},
		Members: []model.Member{
			{Username: "alice", FullName: "Alice Nakato", Role: model.RoleDeveloper, Availability: model.AvailabilityBusy},
			{Username: "bob", Role: model.RoleBusinessAnalyst, Availability: model.AvailabilityAvailable},
		},
		Projects: []model.Project{
			{Name: "Billing Revamp", Developer: "Alice Nakato", StartRaw: "Jan-25", EndRaw: "2025-03-31", Status: model.StatusInProgress, Progress: 40, InitiativeKey: "mobile-first"},
			{Name: "Data Lake", SystemAnalyst: "Bob", StartRaw: "03/04/2025", EndRaw: "TBD", Status: model.StatusIncoming},
		},
		Progress: []model.ProgressEntry{
			{ProjectKey: "billing-revamp", Year: 2025, Month: time.February, Color: model.ColorAmber, Notes: "vendor delay"},
			{ProjectKey: "billing-revamp", Year: 2025, Month: time.January, Color: model.ColorGreen},
		},
	}
}

func TestOpenInMemory(t *testing.T) {
	s := openTest(t)

	v, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, CurrentDBVersion, v)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{SchemaVersion: CurrentDBVersion}, st)
}

func TestImportPortfolio(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	res, err := s.ImportPortfolio(ctx, samplePortfolio())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 2, res.Members)
	assert.Equal(t, 2, res.Progress)
	require.Len(t, res.Projects, 2)
	assert.True(t, res.Projects[0].Created())

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		SchemaVersion: CurrentDBVersion,
		Projects:      2, Members: 2, Divisions: 1, Plans: 1, Perspectives: 1,
		Objectives: 1, Initiatives: 1, Progress: 2,
	}, st)

	p, err := s.GetProject(ctx, "billing-revamp")
	require.NoError(t, err)
	assert.Equal(t, "Billing Revamp", p.Name)
	assert.Equal(t, "Jan-25", p.StartRaw, "raw dates are stored verbatim")
	assert.Equal(t, "2025-03-31", p.EndRaw)
	assert.Equal(t, model.ColorNotStarted, p.ColorStatus)
	assert.True(t, p.CreatedAt.Equal(t0))

	byID, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Key, byID.Key)

	entries, err := s.ListProgress(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, time.January, entries[0].Month)
	assert.Equal(t, time.February, entries[1].Month)
	assert.Equal(t, "vendor delay", entries[1].Notes)
	assert.Equal(t, "billing-revamp", entries[1].ProjectKey)

	members, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, model.RoleDeveloper, members[0].Role)
	assert.Equal(t, "bob", members[1].Username)

	initiatives, err := s.ListInitiatives(ctx)
	require.NoError(t, err)
	require.Len(t, initiatives, 1)
	assert.Equal(t, "mobile-first", initiatives[0].Key)
	assert.Equal(t, "Dec-25", initiatives[0].EndRaw)

	objectives, err := s.ListObjectives(ctx)
	require.NoError(t, err)
	require.Len(t, objectives, 1)
	assert.Equal(t, "digital-channels", objectives[0].Key)
}

func TestReimportUpdatesByKey(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.ImportPortfolio(ctx, samplePortfolio())
	require.NoError(t, err)
	first, err := s.GetProject(ctx, "billing-revamp")
	require.NoError(t, err)

	t1 := t0.Add(48 * time.Hour)
	s.SetClock(func() time.Time { return t1 })

	res, err := s.ImportPortfolio(ctx, model.Portfolio{
		Projects: []model.Project{{Name: "Billing Revamp", StartRaw: "Jan-25", EndRaw: "2025-04-30", Status: model.StatusDelayed}},
		Progress: []model.ProgressEntry{{ProjectKey: "billing-revamp", Year: 2025, Month: time.February, Color: model.ColorRed}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Projects, 1)
	change := res.Projects[0]
	require.NotNil(t, change.Before)
	assert.Equal(t, model.StatusInProgress, change.Before.Status)
	assert.Equal(t, model.StatusDelayed, change.After.Status)

	got, err := s.GetProject(ctx, "billing-revamp")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.True(t, got.UpdatedAt.Equal(t1))
	assert.Equal(t, "2025-04-30", got.EndRaw)

	entries, err := s.ListProgress(ctx, got.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ColorRed, entries[1].Color)
}

func TestImportRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	p := samplePortfolio()
	p.Progress = append(p.Progress, model.ProgressEntry{ProjectKey: "no-such-project", Year: 2025, Month: time.March})

	_, err := s.ImportPortfolio(ctx, p)
	require.ErrorIs(t, err, ErrNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, st.Projects)
	assert.Zero(t, st.Members)
}

func TestImportRejectsNamelessProject(t *testing.T) {
	s := openTest(t)
	_, err := s.ImportPortfolio(context.Background(), model.Portfolio{Projects: []model.Project{{StartRaw: "2025-01-01"}}})
	require.Error(t, err)
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.ImportPortfolio(ctx, samplePortfolio())
	require.NoError(t, err)

	s.SetClock(func() time.Time { return t0.Add(time.Hour) })
	_, err = s.ImportPortfolio(ctx, model.Portfolio{Projects: []model.Project{
		{Name: "Core 100% Uptime", ResponsiblePerson: "Carol", StartRaw: "2024-06-01", EndRaw: "2024-12-15", Status: model.StatusCompleted},
	}})
	require.NoError(t, err)

	keys := func(ps []model.Project) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Key
		}
		return out
	}

	all, err := s.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"core-100-uptime", "data-lake", "billing-revamp"}, keys(all))

	bySearch, err := s.ListProjects(ctx, ProjectFilter{Search: "ALICE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"billing-revamp"}, keys(bySearch))

	byAnalyst, err := s.ListProjects(ctx, ProjectFilter{Search: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"data-lake"}, keys(byAnalyst))

	byPercent, err := s.ListProjects(ctx, ProjectFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core-100-uptime"}, keys(byPercent))

	wildcard, err := s.ListProjects(ctx, ProjectFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"core-100-uptime"}, keys(wildcard), "percent is matched literally")

	byStatus, err := s.ListProjects(ctx, ProjectFilter{Statuses: []string{"In Progress", "incoming"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"data-lake", "billing-revamp"}, keys(byStatus))

	byInitiative, err := s.ListProjects(ctx, ProjectFilter{Initiative: "mobile-first"})
	require.NoError(t, err)
	assert.Equal(t, []string{"billing-revamp"}, keys(byInitiative))

	limited, err := s.ListProjects(ctx, ProjectFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetProjectNotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.GetProject(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenOnDiskPersistsAndLocks(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := Open(dir)
	require.NoError(t, err)
	_, err = s.ImportPortfolio(ctx, samplePortfolio())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(Path(dir))
	require.NoError(t, err)

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	p, err := s.GetProject(ctx, "data-lake")
	require.NoError(t, err)
	assert.Equal(t, "TBD", p.EndRaw)

	held, err := s.acquireImportLock()
	require.NoError(t, err)
	_, err = s.ImportPortfolio(ctx, samplePortfolio())
	assert.ErrorIs(t, err, ErrLocked)
	require.NoError(t, held.Release())

	_, err = s.ImportPortfolio(ctx, samplePortfolio())
	assert.NoError(t, err)
}

func TestInClause(t *testing.T) {
	sql, args := inClause([]string{"incoming", "delayed"})
	assert.Equal(t, "(?, ?)", sql)
	assert.Equal(t, []any{"incoming", "delayed"}, args)

	sql, args = inClause(nil)
	assert.Equal(t, "(NULL)", sql)
	assert.Nil(t, args)
}
