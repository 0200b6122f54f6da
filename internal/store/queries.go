package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio-labs/ptrack/internal/model"
)

const projectColumns = `id, key, name, developer, system_analyst, responsible_person,
	start_raw, end_raw, progress, status, color_status, comments,
	beneficiary_division, performance_measure, objective_key, initiative_key, plan_name,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (model.Project, error) {
	var p model.Project
	var created, updated int64
	err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Developer, &p.SystemAnalyst, &p.ResponsiblePerson,
		&p.StartRaw, &p.EndRaw, &p.Progress, &p.Status, &p.ColorStatus, &p.Comments,
		&p.BeneficiaryDivision, &p.PerformanceMeasure, &p.ObjectiveKey, &p.InitiativeKey, &p.PlanName,
		&created, &updated)
	if err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return p, nil
}

func projectArgs(p model.Project) []any {
	return []any{p.ID, p.Key, p.Name, p.Developer, p.SystemAnalyst, p.ResponsiblePerson,
		p.StartRaw, p.EndRaw, p.Progress, p.Status, p.ColorStatus, p.Comments,
		p.BeneficiaryDivision, p.PerformanceMeasure, p.ObjectiveKey, p.InitiativeKey, p.PlanName,
		p.CreatedAt.UnixNano(), p.UpdatedAt.UnixNano()}
}

// GetProject looks a project up by ID or key.
func (s *Store) GetProject(ctx context.Context, idOrKey string) (model.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ? OR key = ? LIMIT 1`, idOrKey, idOrKey))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("project %q: %w", idOrKey, ErrNotFound)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to load project %q: %w", idOrKey, err)
	}
	return p, nil
}

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	// Search matches name, developer, system analyst and responsible person,
	// case-insensitively.
	Search string

	// Statuses keeps only projects in one of these statuses. Empty means all.
	Statuses []string

	// Initiative keeps only projects linked to this initiative key.
	Initiative string

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// ListProjects returns matching projects, newest first.
func (s *Store) ListProjects(ctx context.Context, f ProjectFilter) ([]model.Project, error) {
	var where []string
	var args []any

	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		where = append(where, `(lower(name) LIKE ? ESCAPE '\' OR lower(developer) LIKE ? ESCAPE '\'
			OR lower(system_analyst) LIKE ? ESCAPE '\' OR lower(responsible_person) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			statuses[i] = model.NormalizeStatus(st)
		}
		in, inArgs := inClause(statuses)
		where = append(where, "status IN "+in)
		args = append(args, inArgs...)
	}
	if f.Initiative != "" {
		where = append(where, "initiative_key = ?")
		args = append(args, f.Initiative)
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, key"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return scanAll(rows, "projects", func(r *sql.Rows) (model.Project, error) {
		return scanProject(r)
	})
}

// ListMembers returns all team members ordered by username.
func (s *Store) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, full_name, role, availability, specialization, reports_to, current_projects, created_at
		FROM members ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return scanAll(rows, "members", func(r *sql.Rows) (model.Member, error) {
		var m model.Member
		var role int
		var created int64
		err := r.Scan(&m.ID, &m.Username, &m.FullName, &role, &m.Availability, &m.Specialization,
			&m.ReportsTo, &m.CurrentProjects, &created)
		m.Role = model.Role(role)
		m.CreatedAt = time.Unix(0, created).UTC()
		return m, err
	})
}

// ListInitiatives returns initiatives in import order.
func (s *Store) ListInitiatives(ctx context.Context) ([]model.Initiative, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, name, objective_key, perspective, plan, responsible, start_raw, end_raw, performance_measure
		FROM initiatives ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}
	return scanAll(rows, "initiatives", func(r *sql.Rows) (model.Initiative, error) {
		var in model.Initiative
		err := r.Scan(&in.ID, &in.Key, &in.Name, &in.ObjectiveKey, &in.Perspective, &in.Plan,
			&in.Responsible, &in.StartRaw, &in.EndRaw, &in.PerformanceMeasure)
		return in, err
	})
}

// ListObjectives returns objectives ordered by name.
func (s *Store) ListObjectives(ctx context.Context) ([]model.Objective, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, key, name FROM objectives ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	return scanAll(rows, "objectives", func(r *sql.Rows) (model.Objective, error) {
		var o model.Objective
		err := r.Scan(&o.ID, &o.Key, &o.Name)
		return o, err
	})
}

// ListProgress returns a project's monthly progress entries in
// chronological order.
func (s *Store) ListProgress(ctx context.Context, projectID string) ([]model.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.project_id, p.key, e.year, e.month, e.color, e.notes, e.created_at
		FROM progress_entries e JOIN projects p ON p.id = e.project_id
		WHERE e.project_id = ?
		ORDER BY e.year, e.month`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return scanAll(rows, "progress entries", func(r *sql.Rows) (model.ProgressEntry, error) {
		var e model.ProgressEntry
		var month int
		var created int64
		err := r.Scan(&e.ProjectID, &e.ProjectKey, &e.Year, &month, &e.Color, &e.Notes, &created)
		e.Month = time.Month(month)
		e.CreatedAt = time.Unix(0, created).UTC()
		return e, err
	})
}

// Stats holds row counts per entity.
type Stats struct {
	SchemaVersion int `json:"schema_version"`
	Projects      int `json:"projects"`
	Members       int `json:"members"`
	Divisions     int `json:"divisions"`
	Plans         int `json:"plans"`
	Perspectives  int `json:"perspectives"`
	Objectives    int `json:"objectives"`
	Initiatives   int `json:"initiatives"`
	Progress      int `json:"progress_entries"`
}

// Stats returns row counts for every table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	v, err := s.Version()
	if err != nil {
		return st, err
	}
	st.SchemaVersion = v

	counts := []struct {
		table string
		dest  *int
	}{
		{"projects", &st.Projects},
		{"members", &st.Members},
		{"divisions", &st.Divisions},
		{"plans", &st.Plans},
		{"perspectives", &st.Perspectives},
		{"objectives", &st.Objectives},
		{"initiatives", &st.Initiatives},
		{"progress_entries", &st.Progress},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return st, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return st, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
